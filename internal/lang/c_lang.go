package lang

func init() {
	Register(&LanguageSpec{
		Language:          C,
		FileExtensions:    []string{".c"},
		CommentNodeTypes:  []string{"comment"},
		LineComment:       "//",
		BlockCommentOpen:  "/*",
		BlockCommentClose: "*/",
		FunctionNodeTypes: []string{"function_definition"},
		ClassNodeTypes:    []string{"struct_specifier", "enum_specifier", "union_specifier"},
	})
}
