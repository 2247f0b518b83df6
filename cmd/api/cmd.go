package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/GregMSThompson/cardledger-backend/internal/bootstrap"
	"github.com/GregMSThompson/cardledger-backend/internal/config"
	"github.com/GregMSThompson/cardledger-backend/internal/handlers"
	"github.com/GregMSThompson/cardledger-backend/internal/notify"
	"github.com/GregMSThompson/cardledger-backend/internal/response"
	"github.com/GregMSThompson/cardledger-backend/internal/router"
	"github.com/GregMSThompson/cardledger-backend/internal/services"
	"github.com/GregMSThompson/cardledger-backend/internal/store"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	// bootstrap
	cfg := config.New()
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	// stores
	ustore := store.NewUserStore(bs.Firestore)
	astore := store.NewAccountStore(bs.Firestore)
	cstore := store.NewCardStore(bs.Firestore)
	tstore := store.NewTransactionStore(bs.Firestore)
	pstore := store.NewPaymentStore(bs.Firestore)

	// services
	userv := services.NewUserService(ustore)
	aserv := services.NewAccountService(astore)
	cserv := services.NewCardService(cstore, tstore)
	tserv := services.NewTransactionService(tstore, cstore, cserv, cfg.DefaultCurrency)
	bserv := services.NewBillService(cstore, tstore, pstore, astore, notify.NewFCM(bs.Messaging))

	// response handler
	rh := response.New(bs.Log)

	// dependancies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = rh
	deps.Firebase = bs.Firebase
	deps.UserSvc = userv
	deps.AccountSvc = aserv
	deps.CardSvc = cserv
	deps.TransactionSvc = tserv
	deps.BillSvc = bserv

	// router
	r := router.NewRouter(deps)
	err = http.ListenAndServe(":8080", r)
	exitOnError("server start failed", err, bs.Log)
}
