package domain

// AppSettings are terminal-local flags persisted in the durable store and
// rehydrated at startup.
type AppSettings struct {
	Dark      bool   `json:"dark"`
	Notif     bool   `json:"notif"`
	SMS       bool   `json:"sms"`
	Offline   bool   `json:"offline"` // offline buffering enabled
	TwoFA     bool   `json:"twofa"`
	Language  string `json:"language"`
	ReceiptNo int    `json:"receipt_no"` // next receipt number
}

func DefaultSettings() AppSettings {
	return AppSettings{
		Dark:      true,
		Notif:     true,
		Offline:   true,
		Language:  "UZ",
		ReceiptNo: 125,
	}
}
