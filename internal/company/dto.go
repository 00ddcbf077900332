package company

// UpdateSettingsRequest replaces all company details.
type UpdateSettingsRequest struct {
	Name          string `json:"name" validate:"required,max=200"`
	Address       string `json:"address" validate:"max=500"`
	Phone         string `json:"phone" validate:"max=50"`
	Email         string `json:"email" validate:"omitempty,email"`
	GSTIN         string `json:"gstin" validate:"omitempty,len=15,alphanum"`
	BankName      string `json:"bank_name" validate:"max=200"`
	AccountName   string `json:"account_name" validate:"max=200"`
	AccountNumber string `json:"account_number" validate:"omitempty,numeric,max=34"`
	IFSC          string `json:"ifsc" validate:"omitempty,len=11,alphanum"`
	Branch        string `json:"branch" validate:"max=200"`
}
