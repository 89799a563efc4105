package lang

func init() {
	Register(&LanguageSpec{
		Language:         CSharp,
		FileExtensions:   []string{".cs"},
		CommentNodeTypes: []string{"comment"},
		LineComment:      "//",
		BlockCommentOpen: "/*",
		BlockCommentClose: "*/",
		FunctionNodeTypes: []string{
			"method_declaration",
			"constructor_declaration",
			"local_function_statement",
		},
		ClassNodeTypes: []string{
			"class_declaration",
			"struct_declaration",
			"enum_declaration",
			"interface_declaration",
		},
	})
}
