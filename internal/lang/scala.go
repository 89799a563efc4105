package lang

func init() {
	Register(&LanguageSpec{
		Language:          Scala,
		FileExtensions:    []string{".scala", ".sc"},
		CommentNodeTypes:  []string{"comment", "block_comment"},
		LineComment:       "//",
		BlockCommentOpen:  "/*",
		BlockCommentClose: "*/",
		FunctionNodeTypes: []string{"function_definition", "function_declaration"},
		ClassNodeTypes: []string{
			"class_definition",
			"object_definition",
			"trait_definition",
		},
	})
}
