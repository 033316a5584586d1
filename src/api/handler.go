package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
	log "github.com/sirupsen/logrus"

	"github.com/jbrewer4/options-pnl/src/export"
	"github.com/jbrewer4/options-pnl/src/marketdata"
	"github.com/jbrewer4/options-pnl/src/optionmodels"
	"github.com/jbrewer4/options-pnl/src/scenario"
)

var (
	service *marketdata.ChainService
	decoder = schema.NewDecoder()
)

type errorResponse struct {
	Type string `json:"type"`
	Msg  string `json:"message"`
}

func NewErrorResponse(errType string, message string) *errorResponse {
	return &errorResponse{
		Type: errType,
		Msg:  message,
	}
}

func setResponse(response interface{}, w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(200)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		return fmt.Errorf("setResponse: encode: %w", err)
	}

	return nil
}

func setErrorResponse(errType string, statusCode int, err error, w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	resp := NewErrorResponse(errType, err.Error())
	if encodeErr := json.NewEncoder(w).Encode(resp); encodeErr != nil {
		return encodeErr
	}

	return nil
}

var errBadRequest = errors.New("bad request")

// statusFor maps fetch failures to a non-fatal status: invalid input is 400,
// missing data is 404, everything else upstream is 502.
func statusFor(err error) int {
	if errors.Is(err, errBadRequest) {
		return 400
	}

	if errors.Is(err, marketdata.ErrNoData) {
		return 404
	}

	return 502
}

type ExpirationsQuery struct {
	Symbol string `schema:"symbol,required"`
}

type ChainQuery struct {
	Symbol     string `schema:"symbol,required"`
	Expiration string `schema:"expiration,required"`
}

type ScenarioParams struct {
	SettlementPrice  float64 `json:"settlement_price" schema:"settlement"`
	DaysToSettlement int     `json:"days_to_settlement" schema:"days"`
	VolAdjustment    float64 `json:"vol_adjustment" schema:"vol_adj"`
}

type PositionRequest struct {
	OptionType optionmodels.OptionType `json:"option_type"`
	Strike     float64                 `json:"strike"`
	Quantity   int                     `json:"quantity"`
	EntryPrice float64                 `json:"entry_price"`
}

type StockRequest struct {
	Shares     int     `json:"shares" schema:"shares"`
	EntryPrice float64 `json:"entry_price" schema:"stock_entry"`
}

type ScenarioRequest struct {
	Symbol     string            `json:"symbol"`
	Expiration string            `json:"expiration"`
	Scenario   ScenarioParams    `json:"scenario"`
	Positions  []PositionRequest `json:"positions"`
	Stock      StockRequest      `json:"stock"`
}

// ReportQuery is the GET form of a scenario request: positions travel as
// repeated "position=side:strike:quantity[:entry]" parameters.
type ReportQuery struct {
	Symbol     string   `schema:"symbol,required"`
	Expiration string   `schema:"expiration,required"`
	Settlement float64  `schema:"settlement"`
	Days       int      `schema:"days"`
	VolAdj     float64  `schema:"vol_adj"`
	Positions  []string `schema:"position"`
	Shares     int      `schema:"shares"`
	StockEntry float64  `schema:"stock_entry"`
}

func (req *ScenarioRequest) positionBook() (*optionmodels.PositionBook, error) {
	book := optionmodels.NewPositionBook()

	for _, p := range req.Positions {
		if err := p.OptionType.Validate(); err != nil {
			return nil, fmt.Errorf("position %v/%v: %w", p.OptionType, p.Strike, err)
		}

		book.Set(p.OptionType, p.Strike, optionmodels.Position{
			Quantity:   p.Quantity,
			EntryPrice: p.EntryPrice,
		})
	}

	return book, nil
}

func handleExpirations(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(404)
		return
	}

	requestID := uuid.New()

	var query ExpirationsQuery
	if err := decoder.Decode(&query, r.URL.Query()); err != nil {
		setErrorResponse("handleExpirations: failed to decode query", 400, err, w)
		return
	}

	symbol := optionmodels.NewStockSymbol(query.Symbol)

	log.WithFields(log.Fields{"requestID": requestID, "symbol": symbol}).Info("fetching expirations")

	spot, expirations, err := service.FetchExpirations(r.Context(), symbol)
	if err != nil {
		setErrorResponse("handleExpirations: failed to fetch expirations", statusFor(err), err, w)
		return
	}

	response := map[string]interface{}{
		"symbol":      symbol,
		"spot":        spot,
		"expirations": expirations,
	}

	if err := setResponse(response, w); err != nil {
		setErrorResponse("handleExpirations: failed to set response", 500, err, w)
		return
	}
}

func handleChain(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(404)
		return
	}

	requestID := uuid.New()

	var query ChainQuery
	if err := decoder.Decode(&query, r.URL.Query()); err != nil {
		setErrorResponse("handleChain: failed to decode query", 400, err, w)
		return
	}

	chain, err := fetchChain(r, query.Symbol, query.Expiration, requestID)
	if err != nil {
		setErrorResponse("handleChain: failed to fetch chain", statusFor(err), err, w)
		return
	}

	if err := setResponse(chain, w); err != nil {
		setErrorResponse("handleChain: failed to set response", 500, err, w)
		return
	}
}

func handleScenario(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(404)
		return
	}

	requestID := uuid.New()

	var req ScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		setErrorResponse("handleScenario: failed to decode request", 400, err, w)
		return
	}

	sc := optionmodels.Scenario{
		SettlementPrice:  req.Scenario.SettlementPrice,
		DaysToSettlement: req.Scenario.DaysToSettlement,
		VolAdjustment:    req.Scenario.VolAdjustment,
	}
	if err := sc.Validate(); err != nil {
		setErrorResponse("handleScenario: invalid scenario", 400, err, w)
		return
	}

	book, err := req.positionBook()
	if err != nil {
		setErrorResponse("handleScenario: invalid positions", 400, err, w)
		return
	}

	chain, err := fetchChain(r, req.Symbol, req.Expiration, requestID)
	if err != nil {
		setErrorResponse("handleScenario: failed to fetch chain", statusFor(err), err, w)
		return
	}

	stock := optionmodels.StockPosition{
		Shares:     req.Stock.Shares,
		EntryPrice: req.Stock.EntryPrice,
	}

	report := scenario.Evaluate(chain, book, sc, stock)

	if err := setResponse(report, w); err != nil {
		setErrorResponse("handleScenario: failed to set response", 500, err, w)
		return
	}
}

func handleReportCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(404)
		return
	}

	requestID := uuid.New()

	var query ReportQuery
	if err := decoder.Decode(&query, r.URL.Query()); err != nil {
		setErrorResponse("handleReportCSV: failed to decode query", 400, err, w)
		return
	}

	sc := optionmodels.Scenario{
		SettlementPrice:  query.Settlement,
		DaysToSettlement: query.Days,
		VolAdjustment:    query.VolAdj,
	}
	if err := sc.Validate(); err != nil {
		setErrorResponse("handleReportCSV: invalid scenario", 400, err, w)
		return
	}

	book, err := optionmodels.ParsePositionSpecs(query.Positions)
	if err != nil {
		setErrorResponse("handleReportCSV: invalid positions", 400, err, w)
		return
	}

	chain, err := fetchChain(r, query.Symbol, query.Expiration, requestID)
	if err != nil {
		setErrorResponse("handleReportCSV: failed to fetch chain", statusFor(err), err, w)
		return
	}

	stock := optionmodels.StockPosition{
		Shares:     query.Shares,
		EntryPrice: query.StockEntry,
	}

	report := scenario.Evaluate(chain, book, sc, stock)

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s_%s_pnl.csv", chain.Underlying, chain.Expiration))

	if err := export.WritePnLCSV(w, report); err != nil {
		log.WithField("requestID", requestID).Errorf("handleReportCSV: failed to write csv: %v", err)
	}
}

func handleWorkbook(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(404)
		return
	}

	requestID := uuid.New()

	var query ReportQuery
	if err := decoder.Decode(&query, r.URL.Query()); err != nil {
		setErrorResponse("handleWorkbook: failed to decode query", 400, err, w)
		return
	}

	book, err := optionmodels.ParsePositionSpecs(query.Positions)
	if err != nil {
		setErrorResponse("handleWorkbook: invalid positions", 400, err, w)
		return
	}

	chain, err := fetchChain(r, query.Symbol, query.Expiration, requestID)
	if err != nil {
		setErrorResponse("handleWorkbook: failed to fetch chain", statusFor(err), err, w)
		return
	}

	f, err := export.BuildWorkbook(export.WorkbookInput{
		Chain:     chain,
		Positions: book,
		Stock: optionmodels.StockPosition{
			Shares:     query.Shares,
			EntryPrice: query.StockEntry,
		},
		Settlement: query.Settlement,
	})
	if err != nil {
		setErrorResponse("handleWorkbook: failed to build workbook", 500, err, w)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s_%s.xlsx", chain.Underlying, chain.Expiration))

	if err := f.Write(w); err != nil {
		log.WithField("requestID", requestID).Errorf("handleWorkbook: failed to write workbook: %v", err)
	}
}

func fetchChain(r *http.Request, symbol, expiration string, requestID uuid.UUID) (*optionmodels.OptionChain, error) {
	if symbol == "" {
		return nil, fmt.Errorf("fetchChain: missing symbol: %w", errBadRequest)
	}

	if expiration == "" {
		return nil, fmt.Errorf("fetchChain: missing expiration: %w", errBadRequest)
	}

	ticker := optionmodels.NewStockSymbol(symbol)
	expirationDate := optionmodels.ExpirationDate(expiration)

	if _, err := expirationDate.Parse(); err != nil {
		return nil, fmt.Errorf("fetchChain: invalid expiration %q: %w", expiration, errBadRequest)
	}

	log.WithFields(log.Fields{
		"requestID":  requestID,
		"symbol":     ticker,
		"expiration": expirationDate,
	}).Info("fetching option chain")

	chain, err := service.FetchChain(r.Context(), ticker, expirationDate)
	if err != nil {
		return nil, fmt.Errorf("fetchChain: %w", err)
	}

	return chain, nil
}

// SetupHandler mounts the option-chain routes on the router.
func SetupHandler(router *mux.Router, chainService *marketdata.ChainService) {
	service = chainService
	decoder.IgnoreUnknownKeys(true)

	router.HandleFunc("/expirations", handleExpirations)
	router.HandleFunc("/chain", handleChain)
	router.HandleFunc("/scenario", handleScenario)
	router.HandleFunc("/report/csv", handleReportCSV)
	router.HandleFunc("/workbook", handleWorkbook)
}
