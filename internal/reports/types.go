package reports

// AIResult is the classification block merged into a report document. It is
// the only part of the document this service owns; everything else on the
// report belongs to the mobile client.
type AIResult struct {
	Category  string   `dynamodbav:"category" json:"category"`
	Labels    []string `dynamodbav:"labels" json:"labels"`
	Timestamp string   `dynamodbav:"timestamp" json:"timestamp"` // ISO8601, server-assigned
}
