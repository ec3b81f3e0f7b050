package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnectMongo_BadURI(t *testing.T) {
	client, err := ConnectMongo("not-a-valid-uri")
	assert.Error(t, err)
	assert.Nil(t, client)
}
