package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"apiexplorer/internal/models"
)

// SeedCatalog represents the structure of the catalog YAML file that
// populates an empty database.
type SeedCatalog struct {
	APIs []SeedEntry `yaml:"apis"`
}

// SeedEntry is one API listed in the seed catalog.
type SeedEntry struct {
	Name        string `yaml:"name"`
	Link        string `yaml:"link"`
	Description string `yaml:"description"`
}

// LoadSeedCatalog loads the seed catalog file at path.
// Returns nil without error if the file doesn't exist.
func LoadSeedCatalog(path string) (*SeedCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Seed file is optional
			return nil, nil
		}
		return nil, err
	}

	return ParseSeedCatalog(data)
}

// ParseSeedCatalog parses catalog YAML, dropping entries without a name or link.
func ParseSeedCatalog(data []byte) (*SeedCatalog, error) {
	var raw SeedCatalog
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	cat := &SeedCatalog{}
	for _, e := range raw.APIs {
		e.Name = strings.TrimSpace(e.Name)
		e.Link = strings.TrimSpace(e.Link)
		e.Description = strings.TrimSpace(e.Description)
		if e.Name == "" || e.Link == "" {
			continue
		}
		cat.APIs = append(cat.APIs, e)
	}
	return cat, nil
}

// Entries returns the catalog entries, or nil for a nil catalog.
func (c *SeedCatalog) Entries() []SeedEntry {
	if c == nil {
		return nil
	}
	return c.APIs
}

// NewEntries converts the catalog into entries in their initial state.
func (c *SeedCatalog) NewEntries() []models.Entry {
	var entries []models.Entry
	for _, e := range c.Entries() {
		entries = append(entries, models.NewEntry(e.Name, e.Link, e.Description))
	}
	return entries
}

// DefaultSeedCatalog returns the built-in catalog used when no seed file exists.
func DefaultSeedCatalog() *SeedCatalog {
	return &SeedCatalog{APIs: []SeedEntry{
		{"Cat Facts", "https://catfact.ninja/", "Random cat facts API."},
		{"Dog CEO's Dog API", "https://dog.ceo/dog-api/", "Random pictures of dogs."},
		{"OpenWeatherMap", "https://openweathermap.org/api", "Weather data from around the world."},
		{"REST Countries", "https://restcountries.com/", "Information about countries, borders, and more."},
		{"Public-apis.io", "https://public-apis.io/", "Lists various public APIs across categories."},
		{"IP Geolocation", "https://ip-api.com/", "IP geolocation API for finding location from IP."},
		{"NASA APIs", "https://api.nasa.gov/", "Space and astronomy-related public APIs from NASA."},
		{"JSONPlaceholder", "https://jsonplaceholder.typicode.com/", "Fake online REST API for testing and prototyping."},
		{"CoinGecko", "https://www.coingecko.com/api/documentation", "Cryptocurrency prices and data API."},
		{"PokeAPI", "https://pokeapi.co/", "Pokémon data accessible via a free API."},
	}}
}
