package dispatcher

// ParamDescriptor documents one tool argument
type ParamDescriptor struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	Description string `json:"description"`
}

// ToolDescriptor documents a tool for tools/list
type ToolDescriptor struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Params      []ParamDescriptor `json:"params"`
}

// ResourceDescriptor documents a resource URI template for resources/list
type ResourceDescriptor struct {
	URI         string `json:"uri"`
	Description string `json:"description"`
}

// Tools lists the callable tools
func Tools() []ToolDescriptor {
	return []ToolDescriptor{
		{
			Name:        ToolSearchRules,
			Description: "Search for rules containing the keyword in name, pattern, or message",
			Params: []ParamDescriptor{
				{Name: "keyword", Type: "string", Required: true, Description: "Case-insensitive keyword"},
			},
		},
		{
			Name:        ToolAnalyzeCode,
			Description: "Analyze code against the patterns of the given rule types",
			Params: []ParamDescriptor{
				{Name: "code", Type: "string", Required: true, Description: "The code to analyze"},
				{Name: "rule_types", Type: "array<string>", Required: false, Description: "Rule types to check; all when omitted or empty"},
			},
		},
		{
			Name:        ToolGetExamples,
			Description: "Get example files related to a rule type",
			Params: []ParamDescriptor{
				{Name: "rule_type", Type: "string", Required: true, Description: "The rule type"},
			},
		},
	}
}

// ToolNames lists tool names in declaration order
func ToolNames() []string {
	tools := Tools()
	names := make([]string, 0, len(tools))
	for _, t := range tools {
		names = append(names, t.Name)
	}
	return names
}

// Resources lists the readable resource URI templates
func Resources() []ResourceDescriptor {
	return []ResourceDescriptor{
		{URI: SchemeRules + "types", Description: "List all available rule types"},
		{URI: SchemeRules + "{rule_type}", Description: "Get rules for a specific rule type"},
		{URI: SchemeRules + "{rule_type}/{rule_name}", Description: "Get a specific rule by its name"},
		{URI: SchemeTemplates + "list", Description: "List all available templates"},
		{URI: SchemeTemplates + "{template_name}", Description: "Get a specific template by name"},
	}
}
