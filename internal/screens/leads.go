package screens

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/joyeria-crm/internal/domain/entity"
	"github.com/jhoicas/joyeria-crm/internal/livelist"
)

type LeadRow struct {
	Meta
	Name           string
	Phone          string
	Source         string
	Stage          string
	EstimatedValue decimal.Decimal
}

// NormalizeLead acepta "stage" o "status" como etapa. Sin "kind" la clase sale del
// origen, igual que en el API, para que marketing vea los leads de campaña.
func NormalizeLead(f livelist.Fields) LeadRow {
	source := f.String("source")
	return LeadRow{
		Meta:           metaFrom(f, entity.LeadKind(source)),
		Name:           f.StringOr("Sin nombre", "name"),
		Phone:          f.String("phone"),
		Source:         source,
		Stage:          status(f, entity.LeadNew, "stage", "status"),
		EstimatedValue: f.Decimal("estimated_value"),
	}
}

var Leads = Definition[LeadRow]{
	Table:     "leads",
	Path:      "leads",
	Normalize: NormalizeLead,
	Action:    "stage",
	Field:     "stage",
}

// LeadSummary tablero del pipeline. PipelineValue suma solo etapas abiertas.
type LeadSummary struct {
	Total          int
	Pipeline       []livelist.Group[LeadRow]
	PipelineValue  decimal.Decimal
	WonValue       decimal.Decimal
	ConversionRate float64
}

func SummarizeLeads(items []LeadRow) LeadSummary {
	open := make([]LeadRow, 0, len(items))
	won := make([]LeadRow, 0)
	for _, l := range items {
		switch l.Stage {
		case entity.LeadWon:
			won = append(won, l)
		case entity.LeadLost:
		default:
			open = append(open, l)
		}
	}
	value := func(l LeadRow) decimal.Decimal { return l.EstimatedValue }
	return LeadSummary{
		Total:          len(items),
		Pipeline:       livelist.GroupBy(items, func(l LeadRow) string { return l.Stage }, entity.LeadStages),
		PipelineValue:  livelist.SumDecimal(open, value),
		WonValue:       livelist.SumDecimal(won, value),
		ConversionRate: livelist.Percentage(len(won), len(items)),
	}
}
