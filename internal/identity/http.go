package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/juju/errors"
	"github.com/juju/loggo"

	"github.com/andy/oficina/internal/domain"
)

var logger = loggo.GetLogger("oficina.identity")

const DefaultTimeout = 5 * time.Second

// HTTPConfig configures the remote identity client. Zero timeouts fall back
// to DefaultTimeout.
type HTTPConfig struct {
	BaseURL        string
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
}

// HTTPDirectory resolves accounts with GET {BaseURL}/accounts/{id}
type HTTPDirectory struct {
	base string
	http *http.Client
}

type accountPayload struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// NewHTTPDirectory builds a client with its own transport so the timeouts
// apply to this directory only
func NewHTTPDirectory(cfg HTTPConfig) (*HTTPDirectory, error) {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		return nil, errors.NewNotValid(nil, "identity base url is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, errors.NotValidf("identity base url %q", cfg.BaseURL)
	}

	connect := cfg.ConnectTimeout
	if connect <= 0 {
		connect = DefaultTimeout
	}
	read := cfg.ReadTimeout
	if read <= 0 {
		read = DefaultTimeout
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: connect}).DialContext,
		TLSHandshakeTimeout:   connect,
		ResponseHeaderTimeout: read,
	}
	return &HTTPDirectory{
		base: base,
		http: &http.Client{Transport: transport},
	}, nil
}

// FindByID fetches one account from the identity service
func (d *HTTPDirectory) FindByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	u := d.base + "/accounts/" + url.PathEscape(id.String())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := d.http.Do(req)
	if err != nil {
		return nil, errors.Annotatef(err, "identity get %s", u)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, errors.NotFoundf("account %s", id)
	}
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("identity get %s: %s", u, resp.Status)
	}

	var p accountPayload
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, errors.Annotate(err, "decode account")
	}

	account := &domain.Account{ID: id, Username: p.Username, Role: domain.Role(strings.ToUpper(p.Role))}
	if p.ID != "" {
		parsed, err := uuid.Parse(p.ID)
		if err != nil {
			return nil, errors.Annotatef(err, "account id %q", p.ID)
		}
		if parsed != id {
			return nil, fmt.Errorf("identity returned account %s for %s", parsed, id)
		}
	}
	if account.Role == "" {
		account.Role = domain.RoleUser
	}
	logger.Debugf("resolved account %s as %s", id, account.Username)
	return account, nil
}
