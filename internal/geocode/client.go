package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrUnresolved возвращается, когда сервис не нашёл координаты для
// запрошенной локации. Это не сбой: ранжирование продолжает работать
// без геофильтра.
var ErrUnresolved = errors.New("geocode: локация не найдена")

// Result — геокодированная локация.
type Result struct {
	Lat float64
	Lon float64
}

// Client реализует клиента Nominatim-совместимого геокодера.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewClient создаёт экземпляр клиента.
func NewClient(baseURL, userAgent string) *Client {
	if userAgent == "" {
		userAgent = "match-backend/1.0"
	}

	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// nominatimPlace — один элемент ответа /search. Координаты приходят
// строками, не числами.
type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Search резолвит пару город/страна в координаты. Пустые части
// опускаются; совсем пустой запрос сразу даёт ErrUnresolved.
func (c *Client) Search(ctx context.Context, city, country string) (*Result, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("geocode: baseURL не задан")
	}

	parts := make([]string, 0, 2)
	if city = strings.TrimSpace(city); city != "" {
		parts = append(parts, city)
	}
	if country = strings.TrimSpace(country); country != "" {
		parts = append(parts, country)
	}
	if len(parts) == 0 {
		return nil, ErrUnresolved
	}

	q := url.Values{}
	q.Set("q", strings.Join(parts, ", "))
	q.Set("format", "json")
	q.Set("limit", "1")

	endpoint := c.baseURL
	if !strings.HasSuffix(endpoint, "/") {
		endpoint += "/"
	}
	endpoint += "search?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode: запрос не выполнен: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("geocode: код ответа %d", resp.StatusCode)
	}

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, fmt.Errorf("geocode: некорректный ответ: %w", err)
	}

	if len(places) == 0 {
		return nil, ErrUnresolved
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("geocode: некорректная широта %q", places[0].Lat)
	}
	lon, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("geocode: некорректная долгота %q", places[0].Lon)
	}

	return &Result{Lat: lat, Lon: lon}, nil
}
