package models

// Mail is an ephemeral compose payload. It is sent, never persisted.
type Mail struct {
	User    string   `json:"user"`
	Mails   []string `json:"mails"`
	Subject string   `json:"subject"`
	Message string   `json:"message"`
}

// MailDraft is a generated email body returned by the draft endpoint.
type MailDraft struct {
	Content string `json:"content"`
}
