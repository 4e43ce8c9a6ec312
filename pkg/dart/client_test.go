package dart

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompany(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/company.json", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("crtfc_key"))
		assert.Equal(t, "00126380", r.URL.Query().Get("corp_code"))

		w.Write([]byte(`{
			"status": "000", "message": "정상",
			"corp_code": "00126380", "corp_name": "삼성전자(주)",
			"corp_name_eng": "SAMSUNG ELECTRONICS CO,.LTD",
			"stock_code": "005930", "ceo_nm": "한종희",
			"corp_cls": "Y", "est_dt": "19690113", "acc_mt": "12"
		}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))
	profile, err := c.Company(context.Background(), "00126380")
	require.NoError(t, err)

	assert.Equal(t, "SAMSUNG ELECTRONICS CO,.LTD", profile.CorpNameEng)
	assert.Equal(t, "005930", profile.StockCode)
	assert.Equal(t, "Y", profile.CorpClass)
	assert.Equal(t, "19690113", profile.Established)
}

func TestCompany_NoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "013", "message": "조회된 데이타가 없습니다."}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := c.Company(context.Background(), "99999999")
	require.ErrorIs(t, err, ErrNoData)
}

func TestCompany_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "020", "message": "API key quota exceeded"}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := c.Company(context.Background(), "00126380")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API error 020")
}

func TestDisclosures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/list.json", r.URL.Path)
		assert.Equal(t, "20250101", r.URL.Query().Get("bgn_de"))
		assert.Equal(t, "20", r.URL.Query().Get("page_count"))

		w.Write([]byte(`{
			"status": "000", "message": "정상", "page_no": 1, "total_count": 1,
			"list": [{
				"corp_code": "00126380", "corp_name": "삼성전자",
				"report_nm": "사업보고서 (2024.12)", "rcept_no": "20250311000123",
				"flr_nm": "삼성전자", "rcept_dt": "20250311", "rm": ""
			}]
		}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))
	list, err := c.Disclosures(context.Background(), DisclosureRequest{
		CorpCode:  "00126380",
		BeginDate: "20250101",
		PageCount: 20,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, list.TotalCount)
	require.Len(t, list.List, 1)
	assert.Equal(t, "사업보고서 (2024.12)", list.List[0].ReportName)
	assert.Equal(t, "https://dart.fss.or.kr/dsaf001/main.do?rcpNo=20250311000123", list.List[0].FilingURL())
}

func TestDisclosures_EmptyWindow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "013", "message": "조회된 데이타가 없습니다."}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))
	list, err := c.Disclosures(context.Background(), DisclosureRequest{CorpCode: "00126380"})
	require.NoError(t, err)
	assert.Empty(t, list.List)
}

func TestFinancials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fnlttSinglAcnt.json", r.URL.Path)
		assert.Equal(t, "2024", r.URL.Query().Get("bsns_year"))
		assert.Equal(t, ReportAnnual, r.URL.Query().Get("reprt_code"))

		w.Write([]byte(`{
			"status": "000", "message": "정상",
			"list": [
				{"account_nm": "매출액", "sj_div": "IS", "fs_div": "CFS", "thstrm_amount": "300,870,903,000,000", "bsns_year": "2024"},
				{"account_nm": "당기순이익", "sj_div": "IS", "fs_div": "CFS", "thstrm_amount": "34,451,351,000,000", "bsns_year": "2024"}
			]
		}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))
	accounts, err := c.Financials(context.Background(), "00126380", "2024", "")
	require.NoError(t, err)

	require.Len(t, accounts, 2)
	assert.Equal(t, "매출액", accounts[0].AccountName)
	assert.Equal(t, "300,870,903,000,000", accounts[0].CurrentAmount)
}

func TestFinancials_NoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "013", "message": "조회된 데이타가 없습니다."}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))
	accounts, err := c.Financials(context.Background(), "00126380", "2019", ReportAnnual)
	require.NoError(t, err)
	assert.Nil(t, accounts)
}
