package models

// Envelope is the uniform response wrapper returned by every handler, on
// both the HTTP and the message-pattern transport. StatusCode is omitted on
// the message-pattern path where HTTP status semantics do not apply.
type Envelope struct {
	Success    bool        `json:"success"`
	StatusCode int         `json:"statusCode,omitempty"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data"`
	Errors     interface{} `json:"errors"`
}
