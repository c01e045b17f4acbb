package models

type HFClassificationRequest struct {
	Inputs string `json:"inputs"`
}

// HFClassificationResponse is the text-classification shape returned by the
// Hugging Face inference API: one list of label scores per input.
type HFClassificationResponse [][]HFLabelScore

type HFLabelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}
