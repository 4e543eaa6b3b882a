package services

import (
	"log"

	"github.com/spf13/viper"

	"github.com/soin8293/gorilla-vs-humans-io/models"
)

// 数值配置文件的默认位置与环境变量覆盖项
const (
	balanceConfigName = "balance"
	balanceConfigType = "yaml"
	balanceEnvKey     = "ARENA_BALANCE_FILE"
)

// LoadBalanceConfig 从配置文件加载数值表。
// 文件缺失、解析失败或数值非法都回退到内置默认表，绝不让比赛启动失败。
func LoadBalanceConfig() models.BalanceConfig {
	v := viper.New()
	v.SetConfigName(balanceConfigName)
	v.SetConfigType(balanceConfigType)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// 允许用环境变量指定配置文件路径
	v.BindEnv("file", balanceEnvKey)
	if path := v.GetString("file"); path != "" {
		v.SetConfigFile(path)
	}

	if err := v.ReadInConfig(); err != nil {
		log.Printf("[配置] 读取数值配置失败，使用内置默认表: %v", err)
		return models.DefaultBalanceConfig()
	}

	var cfg models.BalanceConfig
	if err := v.Unmarshal(&cfg); err != nil {
		log.Printf("[配置] 解析数值配置失败，使用内置默认表: %v", err)
		return models.DefaultBalanceConfig()
	}

	if !cfg.Valid() {
		log.Printf("[配置] 数值配置不完整或非法，使用内置默认表")
		return models.DefaultBalanceConfig()
	}

	log.Printf("[配置] 数值配置加载成功: %s", v.ConfigFileUsed())
	return cfg
}
