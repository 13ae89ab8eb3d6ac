package usecase

import (
	"strconv"

	"github.com/shelfaware/backend/internal/domain"
	"github.com/shelfaware/backend/internal/geo"
)

// Built-in demo dataset for runs without network access: a Louisiana store
// directory centered on Livonia and a small grocery catalog.

const defaultTargetMargin = domain.DefaultTargetMargin

var sampleBasePrices = map[string]float64{
	"Milk (1 gallon)":       3.99,
	"Eggs (dozen)":          4.99,
	"Bread (loaf)":          2.99,
	"Chicken Breast (1lb)":  5.99,
	"Ground Beef (1lb)":     6.99,
	"Bananas (1lb)":         0.69,
	"Apples (1lb)":          1.99,
	"Rice (5lb bag)":        8.99,
	"Pasta (1lb)":           1.49,
	"Cereal (box)":          4.49,
}

var categoryBasePrices = map[string]float64{
	"Dairy":     3.99,
	"Bakery":    2.99,
	"Meat":      5.99,
	"Produce":   1.49,
	"Pantry":    3.49,
	"Breakfast": 4.49,
}

// SampleItems returns the demo item catalog.
func SampleItems() []domain.Item {
	names := []struct {
		name     string
		category string
	}{
		{"Milk (1 gallon)", "Dairy"},
		{"Eggs (dozen)", "Dairy"},
		{"Bread (loaf)", "Bakery"},
		{"Chicken Breast (1lb)", "Meat"},
		{"Ground Beef (1lb)", "Meat"},
		{"Bananas (1lb)", "Produce"},
		{"Apples (1lb)", "Produce"},
		{"Rice (5lb bag)", "Pantry"},
		{"Pasta (1lb)", "Pantry"},
		{"Cereal (box)", "Breakfast"},
	}
	items := make([]domain.Item, 0, len(names))
	for i, n := range names {
		items = append(items, domain.Item{
			ID:           strconv.Itoa(i + 1),
			Name:         n.name,
			Category:     n.category,
			TargetMargin: defaultTargetMargin,
		})
	}
	return items
}

// SampleStores returns the demo store directory filtered to the given radius
// around a center point, with distances computed from that center.
func SampleStores(centerLat, centerLon, radiusMiles float64) []domain.Store {
	directory := []domain.Store{
		{ID: "1", Name: "Sopranos Supermarket", Category: "supermarket", Lat: 30.5594, Lon: -91.5557},
		{ID: "2", Name: "Walmart Supercenter", Category: "supermarket", Lat: 30.4515, Lon: -91.1874},
		{ID: "3", Name: "Target", Category: "department_store", Lat: 30.4507, Lon: -91.1545},
		{ID: "4", Name: "Rouses Market", Category: "supermarket", Lat: 30.4521, Lon: -91.1874},
		{ID: "5", Name: "Winn-Dixie", Category: "supermarket", Lat: 30.4515, Lon: -91.1874},
		{ID: "6", Name: "Dollar General", Category: "discount", Lat: 30.5594, Lon: -91.5557},
		{ID: "7", Name: "Family Dollar", Category: "discount", Lat: 30.5594, Lon: -91.5557},
		{ID: "8", Name: "ALDI", Category: "discount", Lat: 30.4515, Lon: -91.1874},
		{ID: "9", Name: "Publix", Category: "supermarket", Lat: 30.4515, Lon: -91.1874},
		{ID: "10", Name: "Safeway", Category: "supermarket", Lat: 30.4515, Lon: -91.1874},
		{ID: "11", Name: "Walmart Neighborhood Market", Category: "supermarket", Lat: 30.4515, Lon: -91.1874},
		{ID: "12", Name: "Circle K", Category: "convenience", Lat: 30.5594, Lon: -91.5557},
		{ID: "13", Name: "CVS Pharmacy", Category: "pharmacy", Lat: 30.4515, Lon: -91.1874},
		{ID: "14", Name: "Walgreens", Category: "pharmacy", Lat: 30.4515, Lon: -91.1874},
		{ID: "15", Name: "Save-A-Lot", Category: "discount", Lat: 30.4515, Lon: -91.1874},
	}

	var nearby []domain.Store
	for _, store := range directory {
		d := geo.Miles(centerLat, centerLon, store.Lat, store.Lon)
		if d <= radiusMiles {
			store.Distance = roundTenth(d)
			nearby = append(nearby, store)
		}
	}
	return nearby
}

func roundTenth(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
