package persona

// Persona 对用户展示的陪伴角色信息。
type Persona struct {
	Name    string `json:"name"`
	Title   string `json:"title"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// Default 返回 MindfulAI 默认角色
func Default() Persona {
	return Persona{
		Name:    "MindfulAI",
		Title:   "a compassionate emotional support companion",
		Service: "MindfulAI Backend",
		Version: "3.0.0",
	}
}
