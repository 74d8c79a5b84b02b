// Package csvseed loads catalog, inventory, and sales seed data from CSV
// files so demo and test scenarios can be described as plain files.
package csvseed

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hkim/restock/pkg/domain/entities"

	"github.com/shopspring/decimal"
)

// Loader handles loading seed data from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadProducts loads catalog products from a CSV file
func (l *Loader) LoadProducts(filename string) ([]*entities.Product, error) {
	records, err := readAll(filename, "products")
	if err != nil {
		return nil, err
	}

	expectedHeader := []string{"product_id", "name", "unit_price", "category", "subcategory", "discount_rate", "discount_ends_at"}
	if !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("products CSV header mismatch. Expected: %v, Got: %v", expectedHeader, records[0])
	}

	var products []*entities.Product
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("products CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}

		product, err := parseProduct(record)
		if err != nil {
			return nil, fmt.Errorf("products CSV row %d: %w", i+2, err)
		}

		products = append(products, product)
	}

	return products, nil
}

// LoadBatches loads stock batches from a CSV file
func (l *Loader) LoadBatches(filename string) ([]*entities.Batch, error) {
	records, err := readAll(filename, "batches")
	if err != nil {
		return nil, err
	}

	expectedHeader := []string{"batch_id", "product_id", "quantity", "expiration_date", "last_updated"}
	if !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("batches CSV header mismatch. Expected: %v, Got: %v", expectedHeader, records[0])
	}

	var batches []*entities.Batch
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("batches CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}

		batch, err := parseBatch(record)
		if err != nil {
			return nil, fmt.Errorf("batches CSV row %d: %w", i+2, err)
		}

		batches = append(batches, batch)
	}

	return batches, nil
}

// LoadSamples loads daily sales samples from a CSV file
func (l *Loader) LoadSamples(filename string) ([]entities.SalesSample, error) {
	records, err := readAll(filename, "sales")
	if err != nil {
		return nil, err
	}

	expectedHeader := []string{"product_id", "day", "units_sold"}
	if !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("sales CSV header mismatch. Expected: %v, Got: %v", expectedHeader, records[0])
	}

	var samples []entities.SalesSample
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("sales CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}

		sample, err := parseSample(record)
		if err != nil {
			return nil, fmt.Errorf("sales CSV row %d: %w", i+2, err)
		}

		samples = append(samples, sample)
	}

	return samples, nil
}

// Helper functions for parsing CSV records

func readAll(filename, kind string) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file %s: %w", kind, filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", kind, err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("%s CSV must have header and at least one data row", kind)
	}

	return records, nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}

	return true
}

func parseProduct(record []string) (*entities.Product, error) {
	unitPrice, err := decimal.NewFromString(record[2])
	if err != nil {
		return nil, fmt.Errorf("invalid unit_price: %s", record[2])
	}

	product, err := entities.NewProduct(
		entities.ProductID(record[0]),
		record[1],
		unitPrice,
		entities.CategoryID(record[3]),
		entities.SubcategoryID(record[4]),
		time.Time{},
	)
	if err != nil {
		return nil, err
	}

	// Discount columns are optional; both must be set together.
	rateStr := strings.TrimSpace(record[5])
	endsStr := strings.TrimSpace(record[6])
	if rateStr == "" && endsStr == "" {
		return product, nil
	}
	if rateStr == "" || endsStr == "" {
		return nil, fmt.Errorf("discount_rate and discount_ends_at must both be set or both be empty")
	}

	rate, err := decimal.NewFromString(rateStr)
	if err != nil {
		return nil, fmt.Errorf("invalid discount_rate: %s", rateStr)
	}
	if !rate.IsPositive() || rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("discount_rate must be between 0 and 1, got %s", rateStr)
	}
	endsAt, err := time.Parse("2006-01-02", endsStr)
	if err != nil {
		return nil, fmt.Errorf("invalid discount_ends_at format: %s (expected YYYY-MM-DD)", endsStr)
	}

	product.Discount = &entities.Discount{Rate: rate, EndsAt: endsAt}
	return product, nil
}

func parseBatch(record []string) (*entities.Batch, error) {
	quantity, err := strconv.ParseInt(record[2], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid quantity: %s", record[2])
	}

	expirationDate, err := time.Parse("2006-01-02", record[3])
	if err != nil {
		return nil, fmt.Errorf("invalid expiration_date format: %s (expected YYYY-MM-DD)", record[3])
	}

	lastUpdated, err := time.Parse("2006-01-02", record[4])
	if err != nil {
		return nil, fmt.Errorf("invalid last_updated format: %s (expected YYYY-MM-DD)", record[4])
	}

	return entities.NewBatch(
		entities.BatchID(record[0]),
		entities.ProductID(record[1]),
		entities.Quantity(quantity),
		expirationDate,
		lastUpdated,
	)
}

func parseSample(record []string) (entities.SalesSample, error) {
	day, err := time.Parse("2006-01-02", record[1])
	if err != nil {
		return entities.SalesSample{}, fmt.Errorf("invalid day format: %s (expected YYYY-MM-DD)", record[1])
	}

	unitsSold, err := strconv.ParseInt(record[2], 10, 64)
	if err != nil {
		return entities.SalesSample{}, fmt.Errorf("invalid units_sold: %s", record[2])
	}
	if unitsSold < 0 {
		return entities.SalesSample{}, fmt.Errorf("units_sold cannot be negative, got %d", unitsSold)
	}

	return entities.SalesSample{
		ProductID: entities.ProductID(record[0]),
		Day:       day,
		UnitsSold: entities.Quantity(unitsSold),
	}, nil
}
