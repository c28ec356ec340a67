package models

// SchemaVersion is the persistence envelope marker. A store file whose
// envelope lacks it is treated as corrupt rather than silently reinterpreted.
const SchemaVersion = 1

type Storage struct {
	Version  int                 `json:"version"`
	Releases map[string]*Release `json:"releases"`
	MailLog  []*MailRecord       `json:"mail_log"`
}
