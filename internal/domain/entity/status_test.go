package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/joyeria-crm/internal/domain"
	"github.com/jhoicas/joyeria-crm/internal/domain/entity"
)

func TestAppointmentTransitions(t *testing.T) {
	tr := entity.AppointmentTransitions

	assert.NoError(t, tr.Check(entity.AppointmentScheduled, entity.AppointmentConfirmed))
	assert.NoError(t, tr.Check(entity.AppointmentInProgress, entity.AppointmentCompleted))
	assert.ErrorIs(t, tr.Check(entity.AppointmentCompleted, entity.AppointmentScheduled), domain.ErrInvalidTransition,
		"completed es terminal")
	assert.ErrorIs(t, tr.Check(entity.AppointmentScheduled, entity.AppointmentScheduled), domain.ErrInvalidTransition,
		"from == to no es una transición")
	assert.ErrorIs(t, tr.Check(entity.AppointmentScheduled, "archived"), domain.ErrUnknownStatus)
}

func TestOrderTransitions_ReadyNoSeCancela(t *testing.T) {
	assert.ErrorIs(t, entity.OrderTransitions.Check(entity.OrderReady, entity.OrderCancelled), domain.ErrInvalidTransition)
	assert.Equal(t, []string{entity.OrderDelivered}, entity.OrderTransitions.Allowed(entity.OrderReady))
}

func TestLeadStages_CubrenTransiciones(t *testing.T) {
	for _, s := range entity.LeadStages {
		assert.True(t, entity.LeadTransitions.Known(s), s)
	}
	assert.Len(t, entity.LeadTransitions, len(entity.LeadStages))
}

func TestValidRole(t *testing.T) {
	assert.True(t, entity.ValidRole(entity.RoleTeleCalling))
	assert.False(t, entity.ValidRole("bodeguero"))
}
