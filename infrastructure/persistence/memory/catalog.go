package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"stackmap-backend/application/ports"
	"stackmap-backend/domain/core/valueobjects"
	pkgerrors "stackmap-backend/pkg/errors"
)

// Catalog is an in-memory ports.ApplicationCatalog seeded with a
// starter set of well-known applications. Integrations and deployments
// can replace or extend the seed.
type Catalog struct {
	mu      sync.RWMutex
	entries map[string]ports.CatalogApplication
}

// NewCatalog creates a catalog with the default seed
func NewCatalog() *Catalog {
	c := &Catalog{entries: make(map[string]ports.CatalogApplication)}
	for _, entry := range defaultSeed {
		c.entries[entry.ID] = entry
	}
	return c
}

// Add inserts or replaces a catalog entry
func (c *Catalog) Add(entry ports.CatalogApplication) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[entry.ID] = entry
}

// Search returns entries whose name or category contains the query
func (c *Catalog) Search(_ context.Context, query string, limit int) ([]ports.CatalogApplication, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	query = strings.ToLower(strings.TrimSpace(query))
	matching := make([]ports.CatalogApplication, 0)
	for _, entry := range c.entries {
		if query == "" ||
			strings.Contains(strings.ToLower(entry.Name), query) ||
			strings.Contains(strings.ToLower(entry.Category), query) {
			matching = append(matching, entry)
		}
	}
	sort.Slice(matching, func(i, j int) bool { return matching[i].Name < matching[j].Name })

	if limit > 0 && len(matching) > limit {
		matching = matching[:limit]
	}
	return matching, nil
}

// GetByID retrieves a single catalog entry
func (c *Catalog) GetByID(_ context.Context, id valueobjects.ApplicationID) (*ports.CatalogApplication, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[id.String()]
	if !exists {
		return nil, pkgerrors.NewNotFoundError("application")
	}
	return &entry, nil
}

var defaultSeed = []ports.CatalogApplication{
	{ID: "github", Name: "GitHub", Category: "engineering", Website: "https://github.com"},
	{ID: "gitlab", Name: "GitLab", Category: "engineering", Website: "https://gitlab.com"},
	{ID: "jira", Name: "Jira", Category: "project management", Website: "https://www.atlassian.com/software/jira"},
	{ID: "linear", Name: "Linear", Category: "project management", Website: "https://linear.app"},
	{ID: "slack", Name: "Slack", Category: "communication", Website: "https://slack.com"},
	{ID: "teams", Name: "Microsoft Teams", Category: "communication", Website: "https://www.microsoft.com/microsoft-teams"},
	{ID: "figma", Name: "Figma", Category: "design", Website: "https://figma.com"},
	{ID: "notion", Name: "Notion", Category: "documentation", Website: "https://notion.so"},
	{ID: "confluence", Name: "Confluence", Category: "documentation", Website: "https://www.atlassian.com/software/confluence"},
	{ID: "datadog", Name: "Datadog", Category: "observability", Website: "https://www.datadoghq.com"},
	{ID: "pagerduty", Name: "PagerDuty", Category: "observability", Website: "https://www.pagerduty.com"},
	{ID: "salesforce", Name: "Salesforce", Category: "sales", Website: "https://www.salesforce.com"},
	{ID: "hubspot", Name: "HubSpot", Category: "marketing", Website: "https://www.hubspot.com"},
	{ID: "zendesk", Name: "Zendesk", Category: "support", Website: "https://www.zendesk.com"},
	{ID: "stripe", Name: "Stripe", Category: "finance", Website: "https://stripe.com"},
}
