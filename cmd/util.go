package cmd

import (
	"database/sql"
	"fmt"
	"log"

	"lsbacktest/api"
	"lsbacktest/internal/app"
	"lsbacktest/internal/calculator"
	"lsbacktest/internal/repository"
	l1_service "lsbacktest/internal/service/l1"
	l2_service "lsbacktest/internal/service/l2"
	l3_service "lsbacktest/internal/service/l3"
	"lsbacktest/internal/util"

	_ "github.com/lib/pq"
)

func CloseDependencies(handler *api.ApiHandler) {
	err := handler.Db.Close()
	if err != nil {
		log.Fatalf("failed to close db: %v", err)
	}
}

func InitializeDependencies() (*api.ApiHandler, error) {
	secrets, err := util.LoadSecrets()
	if err != nil {
		return nil, fmt.Errorf("failed to load secrets: %w", err)
	}
	config := util.LoadBacktestConfig()

	dbConn, err := sql.Open("postgres", secrets.Db.ToConnectionStr())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}

	priceRepository := repository.NewAdjustedPriceRepository(dbConn)
	alphaScoreRepository := repository.NewAlphaScoreRepository(dbConn)
	aumLeverageRepository := repository.NewAumLeverageRepository(dbConn)
	tradeBookingRepository := repository.NewTradeBookingRepository(dbConn)
	backtestRunRepository := repository.NewBacktestRunRepository(dbConn)
	backtestEventRepository := repository.NewBacktestEventRepository(dbConn)

	priceService := l1_service.NewPriceService(priceRepository)
	signalService := l2_service.NewSignalService(priceService, alphaScoreRepository)
	fundService := l3_service.NewFundService(tradeBookingRepository)
	backtestService := l3_service.NewBacktestService(
		alphaScoreRepository,
		aumLeverageRepository,
		tradeBookingRepository,
		priceService,
		l1_service.NewNotionalService(),
		l1_service.NewTradeLifecycleService(),
		calculator.NewShareAllocator(calculator.ShareAllocatorOptions{
			SolveTimeout: config.SolverTimeout,
			MaxNodes:     config.SolverMaxNodes,
			RefineGreedy: config.RefineGreedy,
		}),
	)

	apiHandler := &api.ApiHandler{
		Db: dbConn,
		BacktestRunner: app.BacktestRunner{
			AlphaScoreRepository:    alphaScoreRepository,
			BacktestService:         backtestService,
			FundService:             fundService,
			BacktestRunRepository:   backtestRunRepository,
			BacktestEventRepository: backtestEventRepository,
			Parallelism:             config.StrategyParallelism,
		},
		SignalService:          signalService,
		FundService:            fundService,
		TradeBookingRepository: tradeBookingRepository,
		BacktestRunRepository:  backtestRunRepository,
		AumLeverageRepository:  aumLeverageRepository,
		PriceRepository:        priceRepository,
		Config:                 config,
		JwtDecodeToken:         secrets.JwtSecret,
	}

	return apiHandler, nil
}
