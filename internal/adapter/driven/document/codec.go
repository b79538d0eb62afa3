// Package document converts the services and categories documents between
// their persisted JSON form and domain models. Both document store backends
// share it so a document body is byte-identical whichever backend holds it.
package document

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/ericfisherdev/servicehub/internal/domain/model"
	"github.com/ericfisherdev/servicehub/internal/domain/port/driven"
)

type serviceRecord struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	Category    string `json:"category"`
	IP          string `json:"ip,omitempty"`
	Icon        string `json:"icon,omitempty"`
	DisplayURL  string `json:"displayUrl,omitempty"`
	Description string `json:"description,omitempty"`
}

type categoryRecord struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// EncodeServices renders services as a 2-space indented JSON array.
func EncodeServices(services []model.Service) ([]byte, error) {
	records := make([]serviceRecord, 0, len(services))
	for _, s := range services {
		records = append(records, serviceRecord{
			ID:          s.ID,
			Name:        s.Name,
			URL:         s.URL,
			Category:    s.Category,
			IP:          s.IP,
			Icon:        s.Icon,
			DisplayURL:  s.DisplayURL,
			Description: s.Description,
		})
	}
	return encode(driven.DocumentServices, records)
}

// DecodeServices parses a services document. An empty body is an empty list.
func DecodeServices(data []byte) ([]model.Service, error) {
	var records []serviceRecord
	if err := decode(driven.DocumentServices, data, &records); err != nil {
		return nil, err
	}

	services := make([]model.Service, 0, len(records))
	for _, r := range records {
		services = append(services, model.Service{
			ID:          r.ID,
			Name:        r.Name,
			URL:         r.URL,
			Category:    r.Category,
			IP:          r.IP,
			Icon:        r.Icon,
			DisplayURL:  r.DisplayURL,
			Description: r.Description,
		})
	}
	return services, nil
}

// EncodeCategories renders categories as a 2-space indented JSON array.
func EncodeCategories(categories []model.Category) ([]byte, error) {
	records := make([]categoryRecord, 0, len(categories))
	for _, c := range categories {
		records = append(records, categoryRecord{ID: c.ID, Name: c.Name})
	}
	return encode(driven.DocumentCategories, records)
}

// DecodeCategories parses a categories document. An empty body is an empty list.
func DecodeCategories(data []byte) ([]model.Category, error) {
	var records []categoryRecord
	if err := decode(driven.DocumentCategories, data, &records); err != nil {
		return nil, err
	}

	categories := make([]model.Category, 0, len(records))
	for _, r := range records {
		categories = append(categories, model.Category{ID: r.ID, Name: r.Name})
	}
	return categories, nil
}

func encode(name string, v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode %s document: %w", name, err)
	}
	return append(data, '\n'), nil
}

func decode(name string, data []byte, v any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s document: %w: %w", name, driven.ErrDocumentCorrupt, err)
	}
	return nil
}
