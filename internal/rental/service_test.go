package rental

import (
	"testing"

	"github.com/stretchr/testify/require"

	dbgen "github.com/rentkart/backend-rentkart/internal/db/gen"
)

func TestCanTransition(t *testing.T) {
	allowed := [][2]dbgen.RentalStatus{
		{dbgen.RentalStatusPENDINGPAYMENT, dbgen.RentalStatusPAID},
		{dbgen.RentalStatusPENDINGPAYMENT, dbgen.RentalStatusCANCELED},
		{dbgen.RentalStatusPENDINGPAYMENT, dbgen.RentalStatusEXPIRED},
		{dbgen.RentalStatusPAID, dbgen.RentalStatusACTIVE},
		{dbgen.RentalStatusPAID, dbgen.RentalStatusCANCELED},
		{dbgen.RentalStatusACTIVE, dbgen.RentalStatusRETURNED},
	}
	for _, pair := range allowed {
		require.True(t, CanTransition(pair[0], pair[1]), "%s -> %s should be allowed", pair[0], pair[1])
	}

	denied := [][2]dbgen.RentalStatus{
		{dbgen.RentalStatusPENDINGPAYMENT, dbgen.RentalStatusACTIVE},
		{dbgen.RentalStatusPENDINGPAYMENT, dbgen.RentalStatusRETURNED},
		{dbgen.RentalStatusPAID, dbgen.RentalStatusPENDINGPAYMENT},
		{dbgen.RentalStatusPAID, dbgen.RentalStatusEXPIRED},
		{dbgen.RentalStatusACTIVE, dbgen.RentalStatusCANCELED},
		{dbgen.RentalStatusRETURNED, dbgen.RentalStatusACTIVE},
		{dbgen.RentalStatusCANCELED, dbgen.RentalStatusPAID},
		{dbgen.RentalStatusEXPIRED, dbgen.RentalStatusPAID},
		{dbgen.RentalStatusPAID, dbgen.RentalStatusPAID},
	}
	for _, pair := range denied {
		require.False(t, CanTransition(pair[0], pair[1]), "%s -> %s should be denied", pair[0], pair[1])
	}
}

func TestKnownStatus(t *testing.T) {
	require.True(t, knownStatus(dbgen.RentalStatusPAID))
	require.False(t, knownStatus(dbgen.RentalStatus("SHIPPED")))
}
