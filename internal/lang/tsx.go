package lang

func init() {
	Register(&LanguageSpec{
		Language:         TSX,
		FileExtensions:   []string{".tsx"},
		CommentNodeTypes: []string{"comment"},
		LineComment:      "//",
		BlockCommentOpen: "/*",
		BlockCommentClose: "*/",
		FunctionNodeTypes: []string{
			"function_declaration",
			"function_expression",
			"arrow_function",
			"method_definition",
		},
		ClassNodeTypes: []string{"class_declaration", "interface_declaration"},
	})
}
