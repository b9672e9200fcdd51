package roadmap

import (
	"slices"
	"strings"
)

type Filterer struct {
	columns []string
	markers []string
}

func NewFilterer(config *Config) *Filterer {
	markers := make([]string, 0, len(config.Markers))
	for _, marker := range config.Markers {
		markers = append(markers, strings.ToLower(strings.TrimSpace(marker)))
	}

	return &Filterer{
		columns: config.ColumnNames(),
		markers: markers,
	}
}

// FilterByStatus keeps items in one of the roadmap columns, in board order.
func (f *Filterer) FilterByStatus(items []BoardItem) []BoardItem {
	filtered := make([]BoardItem, 0, len(items))
	for _, item := range items {
		if slices.Contains(f.columns, item.Status) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// PrefilterByTitle is the cheap pass run before any detail fetch. Labels are
// not known yet, so an item whose only marker is a label does not survive it.
func (f *Filterer) PrefilterByTitle(items []BoardItem) []BoardItem {
	filtered := make([]BoardItem, 0, len(items))
	for _, item := range items {
		if f.IsInitiative(item.Title, nil) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

func (f *Filterer) IsInitiative(title string, labels []string) bool {
	if f.matchesMarkers(title) {
		return true
	}

	for _, label := range labels {
		if f.matchesMarkers(strings.TrimSpace(label)) {
			return true
		}
	}

	return false
}

func (f *Filterer) matchesMarkers(value string) bool {
	if len(f.markers) == 0 {
		return false
	}

	value = strings.ToLower(value)
	for _, marker := range f.markers {
		if !strings.Contains(value, marker) {
			return false
		}
	}
	return true
}
