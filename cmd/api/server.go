package main

import (
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"smart_wallet/internal/api/handlers/subscriptions"
	"smart_wallet/internal/api/handlers/transactions"
	"smart_wallet/internal/api/handlers/users"
	"smart_wallet/internal/api/handlers/wallet"
	"smart_wallet/internal/api/routers"
	"smart_wallet/internal/notifications"
	"smart_wallet/internal/repositories/mysql"
	"smart_wallet/internal/repositories/sqlconnect"
	"smart_wallet/internal/services"
	"smart_wallet/pkg/cron"
	"smart_wallet/pkg/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		utils.Logger.Warn("No .env file found, relying on environment")
	}

	utils.InitLogger()

	if err := sqlconnect.ConnectDb(); err != nil {
		utils.Logger.Fatal("DB connection failed: ", err)
	}

	userRepo := mysql.NewUserRepository(sqlconnect.DB)
	walletRepo := mysql.NewWalletRepository(sqlconnect.DB)
	transactionRepo := mysql.NewTransactionRepository(sqlconnect.DB)
	subscriptionRepo := mysql.NewSubscriptionRepository(sqlconnect.DB)

	dispatcher := notifications.NewDispatcher(notifications.NewEmailSender(userRepo), 100)
	dispatcher.Start(5)
	defer dispatcher.Shutdown()

	transactionService := services.NewTransactionService(transactionRepo, dispatcher)
	walletService := services.NewWalletService(walletRepo, subscriptionRepo, userRepo, transactionService, dispatcher)
	subscriptionService := services.NewSubscriptionService(subscriptionRepo, walletService)
	userService := services.NewUserService(userRepo, subscriptionService, walletService, dispatcher)

	users.Init(userService)
	wallet.Init(walletService)
	subscriptions.Init(subscriptionService)
	transactions.Init(transactionService)

	renewal := cron.StartRenewalJob(cron.NewRenewalScheduler(subscriptionService, walletRepo))
	defer renewal.Stop()

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = ":8080"
	}

	server := &http.Server{
		Addr:    port,
		Handler: routers.MainRouter(),
	}

	utils.Logger.Info("Server is running on port ", port)

	cert := os.Getenv("CERT_FILE")
	key := os.Getenv("KEY_FILE")

	var err error
	if cert != "" && key != "" {
		err = server.ListenAndServeTLS(cert, key)
	} else {
		err = server.ListenAndServe()
	}
	if err != nil {
		utils.Logger.Fatal("Error starting the server: ", err)
	}
}
