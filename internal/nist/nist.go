// Package nist fetches emission line tables from the NIST Atomic Spectra
// Database and cleans its tab-separated output.
package nist

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the ASD lines form endpoint.
const DefaultBaseURL = "https://physics.nist.gov/cgi-bin/ASD/lines1.pl"

// linesQuery requests the full wavelength range as tab-delimited ASCII
// (format=3) with observed and Ritz wavelengths, relative intensities,
// configurations, terms, level energies and J values.
const linesQuery = "&output_type=0&low_w=&upp_w=&unit=1&submit=Retrieve+Data&de=0&plot_out=0" +
	"&I_scale_type=1&format=3&line_out=0&remove_js=on&no_spaces=on&en_unit=0&output=0&page_size=15" +
	"&show_obs_wl=1&show_calc_wl=1&unc_out=1&order_out=0&max_low_enrg=&show_av=3&max_upp_enrg=&tsb_value=0" +
	"&min_str=&A_out=0&intens_out=on&max_str=&allowed_out=1&forbid_out=1&min_accur=&min_intens=" +
	"&conf_out=on&term_out=on&enrg_out=on&J_out=on"

// BuildURL returns the lines query for one element symbol.
func BuildURL(base, symbol string) string {
	return base + "?spectra=" + url.QueryEscape(symbol) + linesQuery
}

// payloadCleaner strips the spreadsheet quoting ASD wraps around fields.
// Replacements run in order: empty quoted fields become NaN before the
// remaining quotes are removed.
var payloadCleaner = []struct{ old, new string }{
	{"=", ""},
	{`"""""",`, "NaN,"},
	{`"`, ""},
	{"+\t", "\t"},
}

// CleanPayload removes the quoting artifacts from a raw ASD response.
func CleanPayload(raw string) string {
	for _, r := range payloadCleaner {
		raw = strings.ReplaceAll(raw, r.old, r.new)
	}
	return raw
}

// Client downloads raw line tables
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for baseURL. A zero timeout means no limit.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{baseURL: baseURL, http: &http.Client{Timeout: timeout}}
}

// FetchLines returns the raw, uncleaned response body for one symbol.
func (c *Client) FetchLines(ctx context.Context, symbol string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, BuildURL(c.baseURL, symbol), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request for %s: %w", symbol, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch %s: unexpected status %s", symbol, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response for %s: %w", symbol, err)
	}
	return string(body), nil
}
