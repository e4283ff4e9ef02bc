package configs

import (
	"errors"

	"github.com/rakibul966222/Rakib-pay/internal/logger"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type Config struct {
	Server struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"server"`
	DB struct {
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"db"`
	JWT struct {
		SECRET string `mapstructure:"secret"`
	} `mapstructure:"jwt"`
	Wallet struct {
		StartingBalance string `mapstructure:"starting_balance"`
		TransferTimeout int    `mapstructure:"transfer_timeout_seconds"`
		TransferRetries int    `mapstructure:"transfer_retries"`
	} `mapstructure:"wallet"`
	OpenAI struct {
		APIKey string `mapstructure:"api_key"`
		Model  string `mapstructure:"model"`
	} `mapstructure:"openai"`
}

var AppConfig Config

func LoadConfig() {
	viper.AddConfigPath("./configs")
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("wallet.starting_balance", "1000.00")
	viper.SetDefault("wallet.transfer_timeout_seconds", 10)
	viper.SetDefault("wallet.transfer_retries", 3)
	viper.SetDefault("openai.model", "gpt-4o-mini")

	viper.AutomaticEnv()

	var fileLookupError viper.ConfigFileNotFoundError
	if err := viper.ReadInConfig(); err != nil {
		if errors.As(err, &fileLookupError) {
			logger.Log.Fatal("config file not found", zap.Error(err))
		}
		logger.Log.Fatal("failed to read config", zap.Error(err))
	}

	viper.Unmarshal(&AppConfig)

	if _, err := decimal.NewFromString(AppConfig.Wallet.StartingBalance); err != nil {
		logger.Log.Fatal("invalid wallet.starting_balance", zap.Error(err))
	}
}

// StartingBalance returns the opening balance granted at signup.
func StartingBalance() decimal.Decimal {
	return decimal.RequireFromString(AppConfig.Wallet.StartingBalance)
}
