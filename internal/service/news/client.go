package news

import (
	"context"
	"fmt"
	"time"

	"StockPilot/internal/domain/models"
	drepo "StockPilot/internal/domain/repository"
	xhttp "StockPilot/pkg/http"
)

const defaultEndpoint = "https://newsapi.org/v2/everything"

// maxArticles caps the articles returned per company.
const maxArticles = 10

// Client implements NewsProvider backed by the NewsAPI "everything" endpoint.
type Client struct {
	apiKey   string
	endpoint string
	client   *xhttp.Client
}

func New(apiKey string, timeout time.Duration) *Client {
	return &Client{
		apiKey:   apiKey,
		endpoint: defaultEndpoint,
		client:   xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

var _ drepo.NewsProvider = (*Client)(nil)

type apiArticle struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

type apiResponse struct {
	Status   string       `json:"status"`
	Message  string       `json:"message"`
	Articles []apiArticle `json:"articles"`
}

// Recent returns up to 10 popular English articles whose title mentions the
// company, published within the last two days. Articles whose source has
// been redacted by the provider are skipped.
func (c *Client) Recent(ctx context.Context, companyName string) ([]models.Article, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("news: api key not configured")
	}
	from := time.Now().AddDate(0, 0, -2).Format("2006-01-02")

	var resp apiResponse
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.endpoint,
		QueryParams: map[string][]string{
			"apiKey":   {c.apiKey},
			"q":        {companyName},
			"searchIn": {"title"},
			"from":     {from},
			"sortBy":   {"popularity"},
			"language": {"en"},
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("news fetch %q: %w", companyName, err)
	}
	if resp.Status != "ok" {
		return nil, fmt.Errorf("news fetch %q: provider status %s: %s", companyName, resp.Status, resp.Message)
	}

	raw := resp.Articles
	if len(raw) > maxArticles {
		raw = raw[:maxArticles]
	}
	out := make([]models.Article, 0, len(raw))
	for _, a := range raw {
		if a.Source.Name == "[Removed]" {
			continue
		}
		out = append(out, models.Article{Source: a.Source.Name, Title: a.Title, URL: a.URL})
	}
	return out, nil
}
