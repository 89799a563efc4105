package lang

func init() {
	Register(&LanguageSpec{
		Language:         TypeScript,
		FileExtensions:   []string{".ts", ".mts"},
		CommentNodeTypes: []string{"comment"},
		LineComment:      "//",
		BlockCommentOpen: "/*",
		BlockCommentClose: "*/",
		FunctionNodeTypes: []string{
			"function_declaration",
			"generator_function_declaration",
			"function_expression",
			"arrow_function",
			"method_definition",
			"function_signature",
		},
		ClassNodeTypes: []string{
			"class_declaration",
			"abstract_class_declaration",
			"enum_declaration",
			"interface_declaration",
			"type_alias_declaration",
		},
	})
}
