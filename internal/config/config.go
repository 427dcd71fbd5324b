// Package config 节点配置，YAML 文件加环境变量覆盖
package config

import (
	"bytes"
	"strings"
	"time"

	"github.com/3ugen/challenge9-call-cross-contract/internal/contract"
	"github.com/3ugen/challenge9-call-cross-contract/internal/errs"
	"github.com/3ugen/challenge9-call-cross-contract/internal/iface"
	"github.com/3ugen/challenge9-call-cross-contract/pkg/balance"
	"github.com/3ugen/challenge9-call-cross-contract/pkg/glog"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix 环境变量前缀，例如 XCALL_GATE_ADDRESS
const EnvPrefix = "XCALL"

// 账本后端
const (
	LedgerMemory = "memory"
	LedgerRedis  = "redis"
)

// 创世账户部署的合约
const (
	ContractNone     = ""
	ContractXCall    = "xcall"
	ContractReporter = "reporter"
)

type Config struct {
	Node     NodeConfig      `yaml:"node" mapstructure:"node"`
	Glog     glog.Config     `yaml:"glog" mapstructure:"glog"`
	Host     HostConfig      `yaml:"host" mapstructure:"host"`
	Contract ContractConfig  `yaml:"contract" mapstructure:"contract"`
	Gate     GateConfig      `yaml:"gate" mapstructure:"gate"`
	Genesis  []AccountConfig `yaml:"genesis" mapstructure:"genesis"`
}

type NodeConfig struct {
	Name string `yaml:"name" mapstructure:"name"`
	// Signer 命令行提交交易时使用的账户
	Signer string `yaml:"signer" mapstructure:"signer"`
}

type HostConfig struct {
	BlockDelay  time.Duration `yaml:"blockDelay" mapstructure:"blockDelay"`
	PoolSize    int           `yaml:"poolSize" mapstructure:"poolSize"`
	Throughput  int           `yaml:"throughput" mapstructure:"throughput"`
	CallBaseGas uint64        `yaml:"callBaseGas" mapstructure:"callBaseGas"`
	LogGas      uint64        `yaml:"logGas" mapstructure:"logGas"`
	PromiseGas  uint64        `yaml:"promiseGas" mapstructure:"promiseGas"`
	Ledger      LedgerConfig  `yaml:"ledger" mapstructure:"ledger"`
}

type LedgerConfig struct {
	Backend string      `yaml:"backend" mapstructure:"backend"`
	Redis   RedisConfig `yaml:"redis" mapstructure:"redis"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" mapstructure:"addr"`
	Password string `yaml:"password" mapstructure:"password"`
	DB       int    `yaml:"db" mapstructure:"db"`
	Key      string `yaml:"key" mapstructure:"key"`
}

// ContractConfig 金额使用十进制字符串
type ContractConfig struct {
	Account        string `yaml:"account" mapstructure:"account"`
	BaseGas        uint64 `yaml:"baseGas" mapstructure:"baseGas"`
	NoDeposit      string `yaml:"noDeposit" mapstructure:"noDeposit"`
	OneUnit        string `yaml:"oneUnit" mapstructure:"oneUnit"`
	ThresholdUnits uint64 `yaml:"thresholdUnits" mapstructure:"thresholdUnits"`
	TopUpUnits     uint64 `yaml:"topUpUnits" mapstructure:"topUpUnits"`
	TransferTo     string `yaml:"transferTo" mapstructure:"transferTo"`
}

type GateConfig struct {
	Enable    bool   `yaml:"enable" mapstructure:"enable"`
	Address   string `yaml:"address" mapstructure:"address"`
	Multicore bool   `yaml:"multicore" mapstructure:"multicore"`
	// MaxFrame 单个帧体的最大字节数
	MaxFrame int `yaml:"maxFrame" mapstructure:"maxFrame"`
}

// AccountConfig 启动时创建的账户
type AccountConfig struct {
	Id       string `yaml:"id" mapstructure:"id"`
	Balance  string `yaml:"balance" mapstructure:"balance"`
	Contract string `yaml:"contract" mapstructure:"contract"`
	// ReportBalance reporter 合约固定返回的余额，空表示返回真实余额
	ReportBalance string `yaml:"reportBalance" mapstructure:"reportBalance"`
}

// Default 生成默认配置
func Default() *Config {
	params := contract.DefaultParams()
	return &Config{
		Node: NodeConfig{
			Name:   "xcall-node-1",
			Signer: "bob_near",
		},
		Glog: *glog.DefaultConfig(),
		Host: HostConfig{
			Throughput:  64,
			CallBaseGas: 1_000_000_000_000,
			LogGas:      10_000_000_000,
			PromiseGas:  100_000_000_000,
			Ledger: LedgerConfig{
				Backend: LedgerMemory,
				Redis: RedisConfig{
					Addr: "127.0.0.1:6379",
					Key:  "xcall:balances",
				},
			},
		},
		Contract: ContractConfig{
			Account:        "alice_near",
			BaseGas:        params.BaseGas,
			NoDeposit:      params.NoDeposit.String(),
			OneUnit:        params.OneUnit.String(),
			ThresholdUnits: params.ThresholdUnits,
			TopUpUnits:     params.TopUpUnits,
			TransferTo:     params.TransferTo,
		},
		Gate: GateConfig{
			Address:  "tcp://127.0.0.1:9400",
			MaxFrame: 1 << 20,
		},
		Genesis: []AccountConfig{
			{Id: "alice_near", Balance: "100000000000000000000000000", Contract: ContractXCall},
			{Id: "bob_near", Balance: "10000000000000000000000000"},
			{Id: "carol_near", Balance: "1000000000000000000000000", Contract: ContractReporter},
			{Id: params.TransferTo, Balance: "0"},
		},
	}
}

// Load 读取 YAML 配置文件，未设置的字段使用默认值，
// 环境变量 XCALL_<SECTION>_<KEY> 可以覆盖文件中的值
func Load(path string) (*Config, error) {
	defaults, err := yaml.Marshal(Default())
	if err != nil {
		return nil, errs.ErrUnmarshalConfigFailed(err)
	}
	vp := viper.New()
	vp.SetConfigType("yaml")
	if err = vp.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return nil, errs.ErrReadConfigFileFailed(err)
	}
	if path != "" {
		vp.SetConfigFile(path)
		if err = vp.MergeInConfig(); err != nil {
			return nil, errs.ErrReadConfigFileFailed(err)
		}
	}
	vp.SetEnvPrefix(EnvPrefix)
	vp.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vp.AutomaticEnv()

	cfg := &Config{}
	if err = vp.Unmarshal(cfg); err != nil {
		return nil, errs.ErrUnmarshalConfigFailed(err)
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse 直接解析 YAML 内容，不读取环境变量
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errs.ErrUnmarshalConfigFailed(err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Marshal 输出 YAML
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	return data, errors.Wrap(err, "marshal config")
}

func (c *Config) Validate() error {
	if err := c.Glog.Validate(); err != nil {
		return errs.ErrInvalidConfig("glog", err)
	}
	switch c.Host.Ledger.Backend {
	case LedgerMemory:
	case LedgerRedis:
		if c.Host.Ledger.Redis.Addr == "" {
			return errs.ErrInvalidConfig("host.ledger.redis.addr", errors.New("empty address"))
		}
	default:
		return errs.ErrInvalidConfig("host.ledger.backend", errors.Errorf("unknown backend %q", c.Host.Ledger.Backend))
	}
	if _, err := c.ContractParams(); err != nil {
		return err
	}
	if err := iface.ValidAccountId(c.Contract.Account); err != nil {
		return errs.ErrInvalidConfig("contract.account", err)
	}
	if c.Gate.Enable && c.Gate.Address == "" {
		return errs.ErrInvalidConfig("gate.address", errors.New("empty address"))
	}
	if c.Gate.MaxFrame <= 0 {
		return errs.ErrInvalidConfig("gate.maxFrame", errors.Errorf("must be positive, got %d", c.Gate.MaxFrame))
	}
	for i, account := range c.Genesis {
		if _, err := account.Initial(); err != nil {
			return errs.ErrInvalidConfig("genesis", errors.WithMessagef(err, "account %d", i))
		}
		switch account.Contract {
		case ContractNone, ContractXCall, ContractReporter:
		default:
			return errs.ErrInvalidConfig("genesis", errors.Errorf("account %s: unknown contract %q", account.Id, account.Contract))
		}
	}
	return nil
}

// ContractParams 转换为合约参数
func (c *Config) ContractParams() (contract.Params, error) {
	cc := c.Contract
	noDeposit, err := balance.Parse(cc.NoDeposit)
	if err != nil {
		return contract.Params{}, errs.ErrInvalidConfig("contract.noDeposit", err)
	}
	oneUnit, err := balance.Parse(cc.OneUnit)
	if err != nil {
		return contract.Params{}, errs.ErrInvalidConfig("contract.oneUnit", err)
	}
	params := contract.Params{
		NoDeposit:      noDeposit,
		BaseGas:        cc.BaseGas,
		OneUnit:        oneUnit,
		ThresholdUnits: cc.ThresholdUnits,
		TopUpUnits:     cc.TopUpUnits,
		TransferTo:     cc.TransferTo,
	}
	if _, err = contract.New(params); err != nil {
		return contract.Params{}, errs.ErrInvalidConfig("contract", err)
	}
	return params, nil
}

// Initial 初始余额
func (a AccountConfig) Initial() (balance.Balance, error) {
	if err := iface.ValidAccountId(a.Id); err != nil {
		return balance.Zero, err
	}
	b, err := balance.Parse(a.Balance)
	if err != nil {
		return balance.Zero, errors.WithMessagef(err, "account %s balance", a.Id)
	}
	return b, nil
}

// Reported reporter 合约固定返回的余额
func (a AccountConfig) Reported() (*balance.Balance, error) {
	if a.ReportBalance == "" {
		return nil, nil
	}
	b, err := balance.Parse(a.ReportBalance)
	if err != nil {
		return nil, errors.WithMessagef(err, "account %s reportBalance", a.Id)
	}
	return &b, nil
}
