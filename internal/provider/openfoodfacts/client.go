package openfoodfacts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"glowupp/nutrition-api/internal/nutrition"
)

const (
	defaultBaseURL   = "https://world.openfoodfacts.org"
	defaultUserAgent = "GlowUpp - Server - Version 1.0"

	// ReferenceAmount and ReferenceUnit describe what Product.Per100g refers to.
	// Drinks are reported per 100 ml instead, see VolumeReferenceUnit.
	ReferenceAmount     = 100.0
	ReferenceUnit       = "g"
	VolumeReferenceUnit = "ml"
)

var (
	ErrInvalidBarcode  = errors.New("barcode must be 8 to 14 digits")
	ErrProductNotFound = errors.New("product not found")
	// ErrUnavailable wraps transport failures and unexpected upstream statuses.
	ErrUnavailable     = errors.New("openfoodfacts unavailable")
)

// Product is a barcode lookup result with nutrients per 100 g.
type Product struct {
	Barcode     string              `json:"barcode"`
	Name        string              `json:"name"`
	Brand       string              `json:"brand,omitempty"`
	Quantity    string              `json:"quantity,omitempty"`
	ServingSize string              `json:"servingSize,omitempty"`
	ImageURL    string              `json:"imageUrl,omitempty"`
	Country     string              `json:"country,omitempty"` // derived from the GS1 prefix
	Per100g     nutrition.Nutrients `json:"per100g"`
}

type Client struct {
	BaseURL    string
	UserAgent  string
	HTTPClient *http.Client
}

// NewClient returns a client with its own timeout. Empty arguments fall
// back to the public endpoint and the default user agent.
func NewClient(baseURL, userAgent string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 12 * time.Second
	}
	return &Client{
		BaseURL:    baseURL,
		UserAgent:  userAgent,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// ValidBarcode reports whether code looks like an EAN-8, UPC or EAN-13/GTIN-14.
func ValidBarcode(code string) bool {
	if len(code) < 8 || len(code) > 14 {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (c *Client) LookupBarcode(ctx context.Context, barcode string) (*Product, error) {
	barcode = strings.TrimSpace(barcode)
	if !ValidBarcode(barcode) {
		return nil, ErrInvalidBarcode
	}

	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if base == "" {
		base = defaultBaseURL
	}
	ua := c.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 12 * time.Second}
	}

	url := fmt.Sprintf("%s/api/v2/product/%s.json", base, barcode)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create openfoodfacts request: %w", err)
	}
	req.Header.Set("User-Agent", ua)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrProductNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var parsed offResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	if parsed.Status != 1 || parsed.Product == nil {
		return nil, ErrProductNotFound
	}

	p := parsed.Product
	name := strings.TrimSpace(p.ProductName)
	if name == "" {
		name = "Unknown product"
	}
	code := strings.TrimSpace(p.Code)
	if code == "" {
		code = barcode
	}
	return &Product{
		Barcode:     code,
		Name:        name,
		Brand:       strings.TrimSpace(p.Brands),
		Quantity:    strings.TrimSpace(p.Quantity),
		ServingSize: strings.TrimSpace(p.ServingSize),
		ImageURL:    p.ImageURL,
		Country:     CountryFromBarcode(code),
		Per100g:     p.Nutriments.toNutrients(),
	}, nil
}

type offResponse struct {
	Status  int         `json:"status"`
	Product *offProduct `json:"product"`
}

type offProduct struct {
	Code        string        `json:"code"`
	ProductName string        `json:"product_name"`
	Brands      string        `json:"brands"`
	Quantity    string        `json:"quantity"`
	ServingSize string        `json:"serving_size"`
	ImageURL    string        `json:"image_url"`
	Nutriments  offNutriments `json:"nutriments"`
}

// offNutriments decodes every value through flexFloat, so numbers sent as
// strings and missing keys are handled in one place.
type offNutriments struct {
	EnergyKcal   *flexFloat `json:"energy-kcal_100g"`
	EnergyKJ     *flexFloat `json:"energy-kj_100g"`
	Proteins     *flexFloat `json:"proteins_100g"`
	Carbohydrate *flexFloat `json:"carbohydrates_100g"`
	Fat          *flexFloat `json:"fat_100g"`
	Fiber        *flexFloat `json:"fiber_100g"`
	Sugars       *flexFloat `json:"sugars_100g"`
	SaturatedFat *flexFloat `json:"saturated-fat_100g"`
	Sodium       *flexFloat `json:"sodium_100g"`      // grams
	Potassium    *flexFloat `json:"potassium_100g"`   // grams
	Cholesterol  *flexFloat `json:"cholesterol_100g"` // grams
}

const kJPerKcal = 4.184

func (n offNutriments) toNutrients() nutrition.Nutrients {
	kcal := n.EnergyKcal.value()
	if n.EnergyKcal == nil && n.EnergyKJ != nil {
		kcal = n.EnergyKJ.value() / kJPerKcal
	}
	return nutrition.Nutrients{
		Calories:      kcal,
		ProteinG:      n.Proteins.value(),
		CarbsG:        n.Carbohydrate.value(),
		FatG:          n.Fat.value(),
		FiberG:        n.Fiber.ptr(1),
		SugarG:        n.Sugars.ptr(1),
		SaturatedFatG: n.SaturatedFat.ptr(1),
		SodiumMg:      n.Sodium.ptr(1000),
		PotassiumMg:   n.Potassium.ptr(1000),
		CholesterolMg: n.Cholesterol.ptr(1000),
	}
}

// flexFloat accepts a JSON number or a numeric string.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" || s == `""` {
		return nil
	}
	s = strings.Trim(s, `"`)
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		// Unparseable values count as zero rather than failing the lookup.
		return nil
	}
	*f = flexFloat(v)
	return nil
}

func (f *flexFloat) value() float64 {
	if f == nil {
		return 0
	}
	return float64(*f)
}

func (f *flexFloat) ptr(scale float64) *float64 {
	if f == nil {
		return nil
	}
	v := float64(*f) * scale
	return &v
}
