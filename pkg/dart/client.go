package dart

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://opendart.fss.or.kr/api"

// ErrNoData is returned when DART reports status 013 (no matching records).
var ErrNoData = errors.New("dart: no data found")

// Report codes for financial statement lookups.
const (
	ReportAnnual = "11011"
	ReportHalf   = "11012"
	ReportQ1     = "11013"
	ReportQ3     = "11014"
)

// Client queries the Korean DART corporate disclosure system.
type Client interface {
	Company(ctx context.Context, corpCode string) (*CompanyProfile, error)
	Disclosures(ctx context.Context, req DisclosureRequest) (*DisclosureList, error)
	Financials(ctx context.Context, corpCode, year, reportCode string) ([]FinancialAccount, error)
}

// CompanyProfile is the registry record for one company.
type CompanyProfile struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	CorpCode     string `json:"corp_code"`
	CorpName     string `json:"corp_name"`
	CorpNameEng  string `json:"corp_name_eng"`
	StockName    string `json:"stock_name"`
	StockCode    string `json:"stock_code"`
	CEOName      string `json:"ceo_nm"`
	CorpClass    string `json:"corp_cls"` // Y=KOSPI, K=KOSDAQ, N=KONEX, E=other
	RegistryNo   string `json:"jurir_no"`
	BusinessNo   string `json:"bizr_no"`
	Address      string `json:"adres"`
	Homepage     string `json:"hm_url"`
	IndustryCode string `json:"ind_tp"`
	Established  string `json:"est_dt"` // YYYYMMDD
	FiscalMonth  string `json:"acc_mt"`
}

// DisclosureRequest filters the disclosure list.
type DisclosureRequest struct {
	CorpCode  string
	BeginDate string // YYYYMMDD
	EndDate   string // YYYYMMDD
	PageCount int
}

// DisclosureList is a page of disclosure filings.
type DisclosureList struct {
	Status     string       `json:"status"`
	Message    string       `json:"message"`
	PageNo     int          `json:"page_no"`
	TotalCount int          `json:"total_count"`
	List       []Disclosure `json:"list"`
}

// Disclosure is a single filing.
type Disclosure struct {
	CorpCode    string `json:"corp_code"`
	CorpName    string `json:"corp_name"`
	ReportName  string `json:"report_nm"`
	ReceiptNo   string `json:"rcept_no"`
	Filer       string `json:"flr_nm"`
	ReceiptDate string `json:"rcept_dt"` // YYYYMMDD
	Remark      string `json:"rm"`
}

// FilingURL returns the public viewer URL for a disclosure.
func (d Disclosure) FilingURL() string {
	return "https://dart.fss.or.kr/dsaf001/main.do?rcpNo=" + d.ReceiptNo
}

// FinancialAccount is one line of a financial statement.
type FinancialAccount struct {
	AccountName   string `json:"account_nm"`
	StatementDiv  string `json:"sj_div"` // BS or IS
	FSDiv         string `json:"fs_div"` // CFS consolidated, OFS separate
	CurrentAmount string `json:"thstrm_amount"`
	PriorAmount   string `json:"frmtrm_amount"`
	Currency      string `json:"currency"`
	FiscalYear    string `json:"bsns_year"`
}

type financialList struct {
	Status  string             `json:"status"`
	Message string             `json:"message"`
	List    []FinancialAccount `json:"list"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a DART API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) Company(ctx context.Context, corpCode string) (*CompanyProfile, error) {
	q := url.Values{}
	q.Set("corp_code", corpCode)

	var profile CompanyProfile
	if err := c.get(ctx, "/company.json", q, &profile); err != nil {
		return nil, err
	}
	if err := checkStatus(profile.Status, profile.Message); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *httpClient) Disclosures(ctx context.Context, req DisclosureRequest) (*DisclosureList, error) {
	q := url.Values{}
	q.Set("corp_code", req.CorpCode)
	if req.BeginDate != "" {
		q.Set("bgn_de", req.BeginDate)
	}
	if req.EndDate != "" {
		q.Set("end_de", req.EndDate)
	}
	if req.PageCount > 0 {
		q.Set("page_count", strconv.Itoa(req.PageCount))
	}

	var list DisclosureList
	if err := c.get(ctx, "/list.json", q, &list); err != nil {
		return nil, err
	}
	if list.Status == "013" {
		// No filings in the window is a normal outcome.
		return &DisclosureList{Status: list.Status, Message: list.Message}, nil
	}
	if err := checkStatus(list.Status, list.Message); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *httpClient) Financials(ctx context.Context, corpCode, year, reportCode string) ([]FinancialAccount, error) {
	if reportCode == "" {
		reportCode = ReportAnnual
	}

	q := url.Values{}
	q.Set("corp_code", corpCode)
	q.Set("bsns_year", year)
	q.Set("reprt_code", reportCode)

	var list financialList
	if err := c.get(ctx, "/fnlttSinglAcnt.json", q, &list); err != nil {
		return nil, err
	}
	if list.Status == "013" {
		return nil, nil
	}
	if err := checkStatus(list.Status, list.Message); err != nil {
		return nil, err
	}
	return list.List, nil
}

func (c *httpClient) get(ctx context.Context, path string, q url.Values, out any) error {
	q.Set("crtfc_key", c.apiKey)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return eris.Wrap(err, "dart: create request")
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return eris.Wrap(err, "dart: send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "dart: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("dart: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return eris.Wrap(err, "dart: unmarshal response")
	}
	return nil
}

// checkStatus maps DART result codes to errors. "000" is success and
// "013" means no data.
func checkStatus(status, message string) error {
	switch status {
	case "000":
		return nil
	case "013":
		return ErrNoData
	default:
		return eris.Errorf("dart: API error %s: %s", status, message)
	}
}
