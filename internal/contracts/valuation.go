package contracts

import "time"

// ValuationModel names one fair-value model in the bank.
type ValuationModel string

const (
	ModelDCF       ValuationModel = "dcf"
	ModelGraham    ValuationModel = "graham"
	ModelEPV       ValuationModel = "epv"
	ModelPiotroski ValuationModel = "piotroski"
	ModelAltman    ValuationModel = "altman"
)

// ValuationEstimate is one model's output for one entity. Fair-value
// models fill FairValue and Upside; screen models (Piotroski, Altman)
// fill Points only.
type ValuationEstimate struct {
	EntityID string         `json:"entity_id"`
	Date     time.Time      `json:"date"`
	RunID    string         `json:"run_id"`
	Model    ValuationModel `json:"model"`

	FairValue Metric   `json:"fair_value"`           // per share
	Upside    Metric   `json:"upside"`               // percent vs price
	Points    Metric   `json:"points,omitempty"`     // raw screen score
	Inputs    []string `json:"assumptions,omitempty"`
}

// ValuationSet collects every model's estimate for one entity within a
// run, keyed by model.
type ValuationSet map[ValuationModel]ValuationEstimate
