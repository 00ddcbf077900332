package company

import "time"

// Settings holds the issuing-company details printed on every quotation.
type Settings struct {
	Name          string    `json:"name"`
	Address       string    `json:"address"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	GSTIN         string    `json:"gstin"`
	BankName      string    `json:"bank_name"`
	AccountName   string    `json:"account_name"`
	AccountNumber string    `json:"account_number"`
	IFSC          string    `json:"ifsc"`
	Branch        string    `json:"branch"`
	UpdatedAt     time.Time `json:"updated_at"`
}
