package handler

type registerResponse struct {
	RecordIdentifier uint64 `json:"record_identifier"`
}

type labelsResponse struct {
	ClassificationLabels []string `json:"classification_labels"`
}
