package dto

// IDCardOptions customizes a rendered card. Location falls back to the
// student's own church when empty.
type IDCardOptions struct {
	Time     string `json:"time"`
	Saint    string `json:"saint"`
	Location string `json:"location"`
}

// BulkIDCardRequest renders one card per code into a single archive.
type BulkIDCardRequest struct {
	Codes    []string `json:"codes" validate:"required,min=1,dive,required"`
	Time     string   `json:"time"`
	Saint    string   `json:"saint"`
	Location string   `json:"location"`
}
