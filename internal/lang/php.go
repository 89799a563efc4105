package lang

func init() {
	Register(&LanguageSpec{
		Language:         PHP,
		FileExtensions:   []string{".php"},
		CommentNodeTypes: []string{"comment"},
		LineComment:      "//",
		BlockCommentOpen: "/*",
		BlockCommentClose: "*/",
		FunctionNodeTypes: []string{
			"function_definition",
			"method_declaration",
		},
		ClassNodeTypes: []string{
			"class_declaration",
			"interface_declaration",
			"trait_declaration",
			"enum_declaration",
		},
	})
}
