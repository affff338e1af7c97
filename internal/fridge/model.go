package fridge

import (
	"bytes"
	"encoding/json"
	"sort"
)

// Row is one stocked fridge entry as stored.
type Row struct {
	ID    int64  `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Group string `json:"group" db:"group_label"`
}

// Entry is one item of the grouped fridge view.
type Entry struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Group is a labeled bucket of fridge entries.
type Group struct {
	Label string
	Items []Entry
}

// Grouped is the fridge view keyed by group label. It marshals as a JSON
// object whose keys appear in descending lexicographic order, which a plain
// map cannot guarantee.
type Grouped []Group

// MarshalJSON writes the groups as an object in slice order.
func (g Grouped) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, group := range g {
		if i > 0 {
			buf.WriteByte(',')
		}
		label, err := json.Marshal(group.Label)
		if err != nil {
			return nil, err
		}
		items, err := json.Marshal(group.Items)
		if err != nil {
			return nil, err
		}
		buf.Write(label)
		buf.WriteByte(':')
		buf.Write(items)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// GroupRows buckets fridge rows by group label. Groups are ordered by
// descending label; items keep ascending insertion-id order, so rows must
// arrive sorted by id.
func GroupRows(rows []Row) Grouped {
	byLabel := make(map[string][]Entry)
	for _, row := range rows {
		byLabel[row.Group] = append(byLabel[row.Group], Entry{ID: row.ID, Name: row.Name})
	}

	labels := make([]string, 0, len(byLabel))
	for label := range byLabel {
		labels = append(labels, label)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(labels)))

	grouped := make(Grouped, 0, len(labels))
	for _, label := range labels {
		grouped = append(grouped, Group{Label: label, Items: byLabel[label]})
	}
	return grouped
}
