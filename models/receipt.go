package models

// ReceiptItem is one raw position decoded from a receipt by the external
// OCR/QR pipeline. AmountMinor is the sum in integer minor currency units
// (kopecks, cents); conversion to major units happens before persistence.
type ReceiptItem struct {
	Name        string `json:"name"`
	AmountMinor int64  `json:"amount_minor"`
}

// ClassifiedItem is a receipt position after the external classifier has
// assigned it a category. An empty Category means the classifier could not
// decide; the writer substitutes its fallback category.
type ClassifiedItem struct {
	Category    string `json:"category"`
	Name        string `json:"name"`
	AmountMinor int64  `json:"amount_minor"`
}

// ParsedExpense is the structured triple extracted from a free-text or
// transcribed expense report. Price is kept as the parser's literal string
// until the writer validates it as a number.
type ParsedExpense struct {
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	Price       string `json:"price"`
}
