package models

// BatchResult summarises one run of the batch driver.
type BatchResult struct {
	Processed int
	Skipped   int
	Failed    int
	Outputs   []string
}

// Total is the number of image files the run looked at.
func (r BatchResult) Total() int {
	return r.Processed + r.Skipped + r.Failed
}
