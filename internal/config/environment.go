package config

// Environment 服务的部署环境。
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

// IsProduction 是否为生产环境
func (e Environment) IsProduction() bool {
	return e == Production
}

// ParseEnvironment 规范化环境名，未知值回退为 Development。
func ParseEnvironment(v string) Environment {
	switch Environment(v) {
	case Production, Staging, Testing:
		return Environment(v)
	default:
		return Development
	}
}
