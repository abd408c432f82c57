package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCartAddMergesQuantities(t *testing.T) {
	cart := Cart{}
	cart.Add("item-1", 2)
	cart.Add("item-1", 3)
	assert.Equal(t, 5, cart["item-1"])
}

func TestCartAddCoercesNonPositiveToOne(t *testing.T) {
	cart := Cart{}
	cart.Add("item-1", 0)
	assert.Equal(t, 1, cart["item-1"])

	cart.Add("item-2", -7)
	assert.Equal(t, 1, cart["item-2"])
}

func TestCartRemoveIsIdempotent(t *testing.T) {
	cart := Cart{"item-1": 2}
	cart.Remove("item-1")
	cart.Remove("item-1")
	cart.Remove("never-added")
	assert.Empty(t, cart)
}
