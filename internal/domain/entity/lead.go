package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Etapas del pipeline de Lead.
const (
	LeadNew       = "new"
	LeadContacted = "contacted"
	LeadQualified = "qualified"
	LeadProposal  = "proposal"
	LeadWon       = "won"
	LeadLost      = "lost"
)

// LeadStages orden del pipeline tal como se muestra (columna por etapa).
var LeadStages = []string{LeadNew, LeadContacted, LeadQualified, LeadProposal, LeadWon, LeadLost}

// LeadTransitions avance lineal; se puede perder desde cualquier etapa abierta.
var LeadTransitions = Transitions{
	LeadNew:       {LeadContacted, LeadLost},
	LeadContacted: {LeadQualified, LeadLost},
	LeadQualified: {LeadProposal, LeadLost},
	LeadProposal:  {LeadWon, LeadLost},
	LeadWon:       nil,
	LeadLost:      {LeadNew},
}

// Clases de lead para el alcance: marketing ve los que vienen de campañas.
const (
	LeadKindLead     = "lead"
	LeadKindCampaign = "campaign"
)

// LeadKind clase de alcance según el origen. La usan el API y el cliente.
func LeadKind(source string) string {
	if strings.EqualFold(strings.TrimSpace(source), "campaign") {
		return LeadKindCampaign
	}
	return LeadKindLead
}

// Lead oportunidad de venta en el pipeline (tele-ventas, campañas, walk-in).
type Lead struct {
	ID             string
	TenantID       string
	StoreID        *string
	Name           string
	Phone          string
	Email          string
	Source         string // walk_in, phone, instagram, campaign, referral
	Stage          string
	EstimatedValue decimal.Decimal
	AssignedTo     *string
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
