package payment_webhook

// Outcome результат обработки события, попадает в метрики
type Outcome string

const (
	OutcomeProcessed Outcome = "processed"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeDiscarded Outcome = "discarded"
	OutcomeIgnored   Outcome = "ignored"
	OutcomeRejected  Outcome = "rejected"
	OutcomeError     Outcome = "error"
)

// Result итог обработки вебхука
type Result struct {
	EventType string
	Outcome   Outcome
}
