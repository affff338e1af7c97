package fridge

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGroupRowsOrdersGroupsDescending(t *testing.T) {
	rows := []Row{
		{ID: 1, Name: "chicken thighs", Group: "meat"},
		{ID: 2, Name: "beef", Group: "meat"},
		{ID: 3, Name: "fish sauce", Group: "sauce"},
		{ID: 4, Name: "sugar", Group: "condiment"},
	}
	grouped := GroupRows(rows)

	assert.Len(t, grouped, 3)
	assert.Equal(t, "sauce", grouped[0].Label)
	assert.Equal(t, "meat", grouped[1].Label)
	assert.Equal(t, "condiment", grouped[2].Label)

	assert.Equal(t, []Entry{
		{ID: 1, Name: "chicken thighs"},
		{ID: 2, Name: "beef"},
	}, grouped[1].Items)
}

func TestGroupedMarshalsKeysInOrder(t *testing.T) {
	grouped := Grouped{
		{Label: "sauce", Items: []Entry{{ID: 3, Name: "fish sauce"}}},
		{Label: "meat", Items: []Entry{{ID: 1, Name: "chicken thighs"}}},
		{Label: "condiment", Items: []Entry{{ID: 4, Name: "sugar"}}},
	}
	data, err := json.Marshal(grouped)
	assert.NoError(t, err)

	// Key order must survive marshaling, unlike a plain map.
	assert.Equal(t,
		`{"sauce":[{"id":3,"name":"fish sauce"}],"meat":[{"id":1,"name":"chicken thighs"}],"condiment":[{"id":4,"name":"sugar"}]}`,
		string(data))

	// Round-trips as a regular JSON object.
	var decoded map[string][]Entry
	assert.NoError(t, json.Unmarshal(data, &decoded))
	assert.Len(t, decoded, 3)
}

func TestGroupRowsEmpty(t *testing.T) {
	data, err := json.Marshal(GroupRows(nil))
	assert.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}
