// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"encoding/json"
	"os"

	tml "github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
)

// Config 配置文件
type Config struct {
	Title   string     `toml:"title" env:"RPS_TITLE"`
	Log     *Log       `toml:"log"`
	Store   *Store     `toml:"store"`
	Coin    *CoinCfg   `toml:"coin"`
	Genesis []*Genesis `toml:"genesis"`
}

// Log 日志配置
type Log struct {
	// 日志级别，支持debug(dbug)/info/warn/error(eror)/crit
	Loglevel        string `toml:"loglevel" env:"RPS_LOG_LEVEL"`
	LogConsoleLevel string `toml:"logConsoleLevel" env:"RPS_LOG_CONSOLE_LEVEL"`
	// 日志文件名，可带目录，所有生成的日志文件都放到此目录下
	LogFile string `toml:"logFile" env:"RPS_LOG_FILE"`
	// 单个日志文件的最大值（单位：兆）
	MaxFileSize uint32 `toml:"maxFileSize"`
	// 最多保存的历史日志文件个数
	MaxBackups uint32 `toml:"maxBackups"`
	// 最多保存的历史日志消息（单位：天）
	MaxAge uint32 `toml:"maxAge"`
	// 日志文件名是否使用本地事件（否则使用UTC时间）
	LocalTime bool `toml:"localTime"`
	// 历史日志文件是否压缩（压缩格式为gz）
	Compress bool `toml:"compress"`
	// 是否打印调用源文件和行号
	CallerFile bool `toml:"callerFile"`
	// 是否打印调用方法
	CallerFunction bool `toml:"callerFunction"`
}

// Store 存储配置
type Store struct {
	// 数据文件名
	Name string `toml:"name"`
	// 存储后端: leveldb, memdb, gobadgerdb, sqlite
	Driver string `toml:"driver" env:"RPS_STORE_DRIVER"`
	// 数据目录
	DbPath string `toml:"dbPath" env:"RPS_STORE_DBPATH"`
	// 缓存大小(MB)
	DbCache int32 `toml:"dbCache"`
}

// CoinCfg 金额的显示精度
type CoinCfg struct {
	Precision int32 `toml:"precision"`
}

// Genesis 创世分配, 只在一个新的数据目录上执行一次
type Genesis struct {
	Addr   string `toml:"addr"`
	Denom  string `toml:"denom"`
	Amount int64  `toml:"amount"`
}

// ConfigSubModule 执行器的子配置, json 编码, 由各个执行器自己解析
type ConfigSubModule struct {
	Exec map[string][]byte
}

type subModule struct {
	Exec map[string]interface{} `toml:"exec"`
}

// DefaultConfig 默认配置
const DefaultConfig = `
title="local"

[log]
loglevel = "info"
logConsoleLevel = "error"
logFile = ""
maxFileSize = 300
maxBackups = 100
maxAge = 28
localTime = true
compress = true

[store]
name = "rps"
driver = "leveldb"
dbPath = "datadir"
dbCache = 64

[coin]
precision = 6

[exec.sub.rps]
denoms = []
maxWager = 0
rakeBps = 0
feeCollector = ""
defaultCount = 20
maxCount = 100
cacheSize = 1024
`

// ReadFile 读取配置文件
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "read config %s", path)
	}
	return string(data), nil
}

// InitCfg 初始化配置
func InitCfg(path string) (*Config, *ConfigSubModule, error) {
	cfgstring, err := ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	return InitCfgString(cfgstring)
}

// InitCfgString 解析配置, 然后用环境变量覆盖
func InitCfgString(cfgstring string) (*Config, *ConfigSubModule, error) {
	var cfg Config
	if _, err := tml.Decode(cfgstring, &cfg); err != nil {
		return nil, nil, errors.Wrap(err, "decode toml")
	}
	fillDefault(&cfg)
	if err := env.Parse(&cfg); err != nil {
		return nil, nil, errors.Wrap(err, "parse env")
	}
	sub, err := initSubModuleString(cfgstring)
	if err != nil {
		return nil, nil, err
	}
	return &cfg, sub, nil
}

func fillDefault(cfg *Config) {
	if cfg.Log == nil {
		cfg.Log = &Log{}
	}
	if cfg.Store == nil {
		cfg.Store = &Store{}
	}
	if cfg.Store.Name == "" {
		cfg.Store.Name = "rps"
	}
	if cfg.Store.Driver == "" {
		cfg.Store.Driver = "leveldb"
	}
	if cfg.Store.DbPath == "" {
		cfg.Store.DbPath = "datadir"
	}
	if cfg.Coin == nil {
		cfg.Coin = &CoinCfg{Precision: DefaultCoinPrecision}
	}
}

func initSubModuleString(cfgstring string) (*ConfigSubModule, error) {
	var cfg subModule
	if _, err := tml.Decode(cfgstring, &cfg); err != nil {
		return nil, errors.Wrap(err, "decode sub module")
	}
	return &ConfigSubModule{Exec: parseItem(cfg.Exec)}, nil
}

func parseItem(data map[string]interface{}) map[string][]byte {
	subconfig := make(map[string][]byte)
	if len(data) == 0 {
		return subconfig
	}
	subcfg, ok := data["sub"].(map[string]interface{})
	if !ok {
		return subconfig
	}
	for k := range subcfg {
		subconfig[k], _ = json.Marshal(subcfg[k])
	}
	return subconfig
}
