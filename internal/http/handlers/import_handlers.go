package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/greenbridge-eco/greenbridge/internal/models"
)

type materialCSVRow struct {
	Name        string
	Code        string
	CategoryID  string
	ValuePerKg  float64
	CO2OffsetKg float64
	Recyclable  bool
}

func parseMaterialsCSV(file multipart.File) ([]materialCSVRow, error) {
	reader := csv.NewReader(file)
	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("invalid CSV header")
	}

	index := map[string]int{}
	for i, h := range headers {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"name", "code", "category_id"} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("missing CSV column %q", required)
		}
	}

	field := func(record []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var rows []materialCSVRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("CSV read error: %v", err)
		}

		row := materialCSVRow{
			Name:        field(record, "name"),
			Code:        field(record, "code"),
			CategoryID:  field(record, "category_id"),
			ValuePerKg:  parseFloat(field(record, "value_per_kg")),
			CO2OffsetKg: parseFloat(field(record, "co2_offset_per_kg")),
			Recyclable:  parseBool(field(record, "recyclable")),
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func validateMaterialRow(r materialCSVRow) error {
	if r.Name == "" {
		return errors.New("missing name")
	}
	if r.Code == "" {
		return errors.New("missing code")
	}
	if r.CategoryID == "" {
		return errors.New("missing category_id")
	}
	if r.ValuePerKg < 0 {
		return errors.New("invalid value_per_kg")
	}
	if r.CO2OffsetKg < 0 {
		return errors.New("invalid co2_offset_per_kg")
	}
	return nil
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func parseBool(s string) bool {
	v, _ := strconv.ParseBool(s)
	return v
}

// ImportMaterialsHandler godoc
// @Summary Import materials via CSV
// @Tags import
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file with name, code, category_id, value_per_kg, co2_offset_per_kg, recyclable columns"
// @Success 200 {object} ImportMaterialsResult
// @Failure 400 {string} string "Invalid file"
// @Router /api/v1/materials/import [post]
func ImportMaterialsHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "invalid upload", http.StatusBadRequest)
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	rows, err := parseMaterialsCSV(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result := ImportMaterialsResult{Errors: []ValidationError{}}
	for i, row := range rows {
		line := fmt.Sprintf("row %d", i+2) // header is line 1

		if err := validateMaterialRow(row); err != nil {
			result.Errors = append(result.Errors, ValidationError{Field: line, Description: err.Error()})
			continue
		}
		if _, err := categoryRepo.GetByID(row.CategoryID); err != nil {
			result.Errors = append(result.Errors, ValidationError{Field: line, Description: "category not found"})
			continue
		}

		created, err := materialRepo.Create(models.Material{
			Name:        row.Name,
			Code:        row.Code,
			CategoryID:  row.CategoryID,
			ValuePerKg:  row.ValuePerKg,
			CO2OffsetKg: row.CO2OffsetKg,
			Recyclable:  row.Recyclable,
		})
		if err != nil {
			result.Errors = append(result.Errors, ValidationError{Field: line, Description: "could not create material"})
			continue
		}

		indexMaterial(created)
		result.ImportedMaterialsCount++
	}

	writeJSONOrLog(w, http.StatusOK, result)
}
