package lang

func init() {
	Register(&LanguageSpec{
		Language:         JavaScript,
		FileExtensions:   []string{".js", ".jsx", ".mjs"},
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
		},
		ClassNodeTypes: []string{"class_declaration", "class"},
	})
}
