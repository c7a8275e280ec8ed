package outline_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angch/vimp/internal/outline"
)

func Test_Classify_Returns_Kind_And_Level_When_Given_Line(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name      string
		line      string
		wantKind  outline.Kind
		wantLevel int
	}{
		{name: "h1", line: "# Title\n", wantKind: outline.KindHeader, wantLevel: 1},
		{name: "h3", line: "### Deep\n", wantKind: outline.KindHeader, wantLevel: 3},
		{name: "indented header", line: "  ## Indented\n", wantKind: outline.KindHeader, wantLevel: 2},
		{name: "header without space uses whole token", line: "#tag\n", wantKind: outline.KindHeader, wantLevel: 4},
		{name: "done", line: "- [x] Ship it\n", wantKind: outline.KindTaskDone, wantLevel: -1},
		{name: "indented done", line: "    - [x] Nested\n", wantKind: outline.KindTaskDone, wantLevel: -1},
		{name: "todo", line: "- [ ] Later\n", wantKind: outline.KindTaskTodo, wantLevel: -1},
		{name: "uppercase X is text", line: "- [X] Shout\n", wantKind: outline.KindText, wantLevel: -1},
		{name: "separator", line: "---\n", wantKind: outline.KindSeparator, wantLevel: -1},
		{name: "long separator", line: "-----\n", wantKind: outline.KindSeparator, wantLevel: -1},
		{name: "blank", line: "\n", wantKind: outline.KindText, wantLevel: -1},
		{name: "whitespace only", line: "   \t\n", wantKind: outline.KindText, wantLevel: -1},
		{name: "plain bullet", line: "- note\n", wantKind: outline.KindText, wantLevel: -1},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			kind, level := outline.Classify(tt.line)

			if got, want := kind, tt.wantKind; got != want {
				t.Errorf("kind=%s, want=%s", got, want)
			}

			if got, want := level, tt.wantLevel; got != want {
				t.Errorf("level=%d, want=%d", got, want)
			}
		})
	}
}

func Test_Parse_Nests_Headers_By_Level_When_Levels_Vary(t *testing.T) {
	t.Parallel()

	root := outline.ParseString("intro\n# A\n## A1\n- [ ] a1\n#### A1x\n## A2\n# B\nb text\n")

	require.Equal(t, outline.KindRoot, root.Kind)
	require.Len(t, root.Children, 3, "intro, # A, # B")

	assert.Equal(t, outline.KindText, root.Children[0].Kind)

	headerA := root.Children[1]
	require.Len(t, headerA.Children, 2, "## A1 and ## A2")

	a1 := headerA.Children[0]
	assert.Equal(t, "## A1\n", a1.Line)
	require.Len(t, a1.Children, 2, "task and skipped-level header")
	assert.Equal(t, outline.KindTaskTodo, a1.Children[0].Kind)
	assert.Equal(t, 4, a1.Children[1].Level)

	headerB := root.Children[2]
	require.Len(t, headerB.Children, 1)
	assert.Equal(t, "b text\n", headerB.Children[0].Line)
}

func Test_Parse_Attaches_Shallower_Header_To_Root_When_Document_Starts_Deep(t *testing.T) {
	t.Parallel()

	root := outline.ParseString("### Deep\n## Shallower\n")

	require.Len(t, root.Children, 2)
	assert.Empty(t, root.Children[0].Children)
}

func Test_Parse_Returns_Empty_Root_When_Input_Empty(t *testing.T) {
	t.Parallel()

	root := outline.ParseString("")

	assert.Equal(t, outline.KindRoot, root.Kind)
	assert.True(t, root.IsEmpty())
}

func Test_Parse_Keeps_Last_Line_Without_Newline_When_Unterminated(t *testing.T) {
	t.Parallel()

	in := "# T\n- [ ] last"
	root := outline.ParseString(in)

	if diff := cmp.Diff([]string{"# T\n", "- [ ] last"}, outline.Flatten(root)); diff != "" {
		t.Errorf("flatten mismatch (-want +got):\n%s", diff)
	}
}

func Test_Flatten_Reproduces_Input_When_Parsed(t *testing.T) {
	t.Parallel()

	in := "# T\n\n  indented text\n## S\n- [x] done\n- [ ] todo\n---\n\n# U\n"

	got := string(outline.Render(outline.Flatten(outline.ParseString(in))))

	if got != in {
		t.Errorf("round trip=%q, want=%q", got, in)
	}
}

func Test_FilterHistory_Rewrites_Done_Items_As_Bullets_When_Present(t *testing.T) {
	t.Parallel()

	root := outline.ParseString("# T\n## S\n- [x] Fix bug\n  - [x] Indented\n- [ ] Later\ntext\n---\n")

	got := outline.Flatten(outline.FilterHistory(root))
	want := []string{"# T\n", "## S\n", "- Fix bug\n", "  - Indented\n"}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}
}

func Test_FilterHistory_Prunes_Sections_Without_Done_Items_When_Filtering(t *testing.T) {
	t.Parallel()

	root := outline.ParseString("# T\n## Empty\n- [ ] a\n\n## Full\n- [x] b\n## Nested\n### Deeper\n- [ ] c\n")

	got := outline.Flatten(outline.FilterHistory(root))
	want := []string{"# T\n", "## Full\n", "- b\n"}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}
}

func Test_FilterHistory_Returns_Nil_When_Nothing_Done(t *testing.T) {
	t.Parallel()

	root := outline.ParseString("# T\n- [ ] a\ntext\n---\n")

	assert.Nil(t, outline.FilterHistory(root))
	assert.Nil(t, outline.FilterHistory(outline.NewRoot()))
}

func Test_FilterHistory_Does_Not_Mutate_Input_When_Filtering(t *testing.T) {
	t.Parallel()

	in := "# T\n- [x] a\n- [ ] b\n"
	root := outline.ParseString(in)

	_ = outline.FilterHistory(root)
	_ = outline.FilterTodo(root)

	assert.Equal(t, in, string(outline.Render(outline.Flatten(root))))
}

func Test_FilterTodo_Drops_Done_Items_And_Keeps_Structure_When_Filtering(t *testing.T) {
	t.Parallel()

	root := outline.ParseString("# T\nSome prose.\n## A\n- [x] gone\n- [ ] stays\n---\n\n## B\n- [x] gone too\n")

	got := outline.Flatten(outline.FilterTodo(root))
	want := []string{"# T\n", "Some prose.\n", "## A\n", "- [ ] stays\n", "---\n", "\n"}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("todo mismatch (-want +got):\n%s", diff)
	}
}

func Test_FilterTodo_Prunes_Header_When_Only_Blank_And_Rules_Remain(t *testing.T) {
	t.Parallel()

	root := outline.ParseString("# T\n- [ ] keep\n## Vacuous\n\n---\n   \n## Done\n- [x] x\n\n")

	got := outline.Flatten(outline.FilterTodo(root))
	want := []string{"# T\n", "- [ ] keep\n"}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("todo mismatch (-want +got):\n%s", diff)
	}
}

func Test_FilterTodo_Keeps_Header_When_Only_Nested_Header_Is_Meaningful(t *testing.T) {
	t.Parallel()

	root := outline.ParseString("# T\n## Outer\n\n### Inner\n- [ ] deep\n")

	got := outline.Flatten(outline.FilterTodo(root))
	want := []string{"# T\n", "## Outer\n", "\n", "### Inner\n", "- [ ] deep\n"}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("todo mismatch (-want +got):\n%s", diff)
	}
}

func Test_FilterTodo_Keeps_Root_Level_Task_When_No_Header(t *testing.T) {
	t.Parallel()

	root := outline.ParseString("- [ ] orphan\n- [x] done orphan\n")

	got := outline.Flatten(outline.FilterTodo(root))

	if diff := cmp.Diff([]string{"- [ ] orphan\n"}, got); diff != "" {
		t.Errorf("todo mismatch (-want +got):\n%s", diff)
	}
}

func Test_FilterTodo_Returns_Nil_When_Everything_Done(t *testing.T) {
	t.Parallel()

	root := outline.ParseString("# T\n- [x] a\n---\n\n")

	todo := outline.FilterTodo(root)

	assert.Nil(t, todo)
	assert.Empty(t, outline.Flatten(todo))
	assert.Zero(t, outline.CountTodos(todo))
}

func Test_FilterTodo_Is_Stable_When_Applied_Twice(t *testing.T) {
	t.Parallel()

	root := outline.ParseString("# T\n## A\n- [x] a\n- [ ] b\n---\n## B\n\n## C\nnote\n")

	once := outline.Flatten(outline.FilterTodo(root))
	twice := outline.Flatten(outline.FilterTodo(outline.ParseString(string(outline.Render(once)))))

	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("second pass changed output (-once +twice):\n%s", diff)
	}
}

func Test_FilterTodo_Preserves_Meaningful_Lines_When_Nothing_Done(t *testing.T) {
	t.Parallel()

	in := "# T\nprose\n## A\n- [ ] one\n---\n## B\n- [ ] two\n"

	got := string(outline.Render(outline.Flatten(outline.FilterTodo(outline.ParseString(in)))))

	assert.Equal(t, in, got)
}

func Test_Counts_Conserve_Tasks_When_Splitting(t *testing.T) {
	t.Parallel()

	for _, doc := range []string{
		"",
		"- [ ] a\n- [x] b\n",
		"# T\n## A\n- [x] a\n- [ ] b\n### A1\n- [x] c\n- [x] d\n---\n## B\n\n- [ ] e\n",
		"# T\n## Only done\n- [x] a\n## Only todo\n- [ ] b\n  - [ ] indented\n",
	} {
		root := outline.ParseString(doc)

		pending := outline.CountTodos(root)
		done := outline.CountKind(root, outline.KindTaskDone)

		todo := outline.FilterTodo(root)
		history := outline.FilterHistory(root)

		assert.Equal(t, pending+done, outline.CountTodos(todo)+done, "doc=%q", doc)
		assert.Equal(t, pending, outline.CountTodos(todo), "doc=%q", doc)
		assert.Zero(t, outline.CountKind(todo, outline.KindTaskDone), "doc=%q", doc)
		assert.Equal(t, done, countBullets(outline.Flatten(history)), "doc=%q", doc)
	}
}

func Test_Merge_Appends_New_Items_Under_Matching_Headers_When_Base_Has_Content(t *testing.T) {
	t.Parallel()

	base := outline.ParseString("# Project History\n## A\n- old a\n## B\n- old b\n")
	delta := outline.ParseString("# Project History\n## B\n- new b\n## C\n- new c\n## A\n- old a\n- new a\n")

	outline.Merge(base, delta)

	want := []string{
		"# Project History\n",
		"## A\n", "- old a\n", "- new a\n",
		"## B\n", "- old b\n", "- new b\n",
		"## C\n", "- new c\n",
	}

	if diff := cmp.Diff(want, outline.Flatten(base)); diff != "" {
		t.Errorf("merge mismatch (-want +got):\n%s", diff)
	}
}

func Test_Merge_Matches_On_Trimmed_Line_When_Whitespace_Differs(t *testing.T) {
	t.Parallel()

	base := outline.ParseString("# H\n- item\n")
	delta := outline.ParseString("# H  \n  - item\n")

	outline.Merge(base, delta)

	assert.Equal(t, []string{"# H\n", "- item\n"}, outline.Flatten(base))
}

func Test_Merge_Does_Not_Match_Different_Kinds_When_Text_Equal(t *testing.T) {
	t.Parallel()

	base := outline.ParseString("# H\n")
	delta := outline.NewRoot()
	delta.Children = []*outline.Node{{Kind: outline.KindText, Level: -1, Line: "# H\n"}}

	outline.Merge(base, delta)

	require.Len(t, base.Children, 2)
	assert.Equal(t, outline.KindText, base.Children[1].Kind)
}

func Test_Merge_Is_Idempotent_When_Same_Delta_Applied_Twice(t *testing.T) {
	t.Parallel()

	todo := "# TODO.md\n## A\n- [x] one\n- [x] two\n## B\n### B1\n- [x] three\n"

	base := outline.MergeInto(outline.ParseString("# Project History\n## Z\n- z\n"),
		outline.FilterHistory(outline.ParseString(todo)))
	first := outline.Flatten(base)

	base = outline.MergeInto(base, outline.FilterHistory(outline.ParseString(todo)))

	if diff := cmp.Diff(first, outline.Flatten(base)); diff != "" {
		t.Errorf("second merge changed tree (-first +second):\n%s", diff)
	}
}

func Test_Merge_Is_Idempotent_When_Archive_Is_Read_Back_From_Disk(t *testing.T) {
	t.Parallel()

	todo := outline.ParseString("# TODO.md\n## A\n- [x] one\n  - [x] nested\n- [ ] later\n")

	history := outline.MergeInto(outline.NewRoot(), outline.FilterHistory(todo))
	outline.NormalizeTitle(history, "TODO.md", outline.DefaultHistoryTitle)
	written := string(outline.Render(outline.Flatten(history)))

	delta := outline.FilterHistory(todo)
	outline.NormalizeTitle(delta, "TODO.md", outline.DefaultHistoryTitle)

	reread := outline.MergeInto(outline.ParseString(written), delta)

	if diff := cmp.Diff(written, string(outline.Render(outline.Flatten(reread)))); diff != "" {
		t.Errorf("rerun duplicated history (-first +second):\n%s", diff)
	}
}

func Test_FilterHistory_Gives_Bullets_The_Kind_They_Parse_As_When_Rewritten(t *testing.T) {
	t.Parallel()

	history := outline.FilterHistory(outline.ParseString("# T\n- [x] a\n  - [x] b\n"))
	require.NotNil(t, history)

	header := history.Children[0]
	require.Len(t, header.Children, 2)

	for _, n := range header.Children {
		kind, level := outline.Classify(n.Line)
		assert.Equal(t, kind, n.Kind, "line=%q", n.Line)
		assert.Equal(t, level, n.Level, "line=%q", n.Line)
	}

	assert.Zero(t, outline.CountKind(history, outline.KindTaskDone))
}

func Test_NormalizeTitle_Adds_Second_Title_When_Archive_Title_Is_Custom(t *testing.T) {
	t.Parallel()

	base := outline.ParseString("# My Log\n- old\n")

	delta := outline.FilterHistory(outline.ParseString("# TODO.md\n- [x] new\n"))
	outline.NormalizeTitle(delta, "TODO.md", outline.DefaultHistoryTitle)

	history := outline.MergeInto(base, delta)
	outline.NormalizeTitle(history, "TODO.md", outline.DefaultHistoryTitle)

	want := []string{"# My Log\n", "- old\n", "# Project History\n", "- new\n"}

	if diff := cmp.Diff(want, outline.Flatten(history)); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}
}

func Test_MergeInto_Replaces_Empty_Base_When_First_Run(t *testing.T) {
	t.Parallel()

	delta := outline.FilterHistory(outline.ParseString("# TODO.md\n- [x] a\n"))

	got := outline.MergeInto(outline.NewRoot(), delta)

	assert.Same(t, delta, got)
}

func Test_MergeInto_Returns_Base_When_Delta_Nil(t *testing.T) {
	t.Parallel()

	base := outline.ParseString("# Project History\n- a\n")

	assert.Same(t, base, outline.MergeInto(base, nil))
	assert.True(t, outline.MergeInto(nil, nil).IsEmpty())
}

func Test_NormalizeTitle_Rewrites_First_Header_When_It_Names_Todo_File(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name string
		doc  string
		want string
	}{
		{name: "todo heading", doc: "# TODO.md\n- a\n", want: "# Project History\n"},
		{name: "todo heading with suffix", doc: "# TODO.md (live)\n", want: "# Project History\n"},
		{name: "other heading", doc: "# Changelog\n- a\n", want: "# Changelog\n"},
		{name: "first child is text", doc: "intro TODO.md\n# TODO.md\n", want: "intro TODO.md\n"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			root := outline.ParseString(tt.doc)
			outline.NormalizeTitle(root, "TODO.md", outline.DefaultHistoryTitle)

			assert.Equal(t, tt.want, root.Children[0].Line)
		})
	}
}

func Test_Pipeline_Produces_Expected_Files_When_Run_On_Sample(t *testing.T) {
	t.Parallel()

	root := outline.ParseString("# TODO.md\n## Section A\n- [x] Done item\n- [ ] Pending item\n---\n")

	history := outline.MergeInto(outline.NewRoot(), outline.FilterHistory(root))
	outline.NormalizeTitle(history, "TODO.md", outline.DefaultHistoryTitle)

	todo := outline.FilterTodo(root)

	assert.Equal(t, "# Project History\n## Section A\n- Done item\n",
		string(outline.Render(outline.Flatten(history))))
	assert.Equal(t, "# TODO.md\n## Section A\n- [ ] Pending item\n---\n",
		string(outline.Render(outline.Flatten(todo))))
	assert.Equal(t, 1, outline.CountTodos(todo))
}

func Test_Kind_String_Returns_Name_When_Known(t *testing.T) {
	t.Parallel()

	names := []string{}
	for _, k := range []outline.Kind{
		outline.KindRoot, outline.KindHeader, outline.KindTaskDone,
		outline.KindTaskTodo, outline.KindSeparator, outline.KindText, outline.Kind(99),
	} {
		names = append(names, k.String())
	}

	assert.Equal(t, "root header task_done task_todo separator text unknown", strings.Join(names, " "))
}

func countBullets(lines []string) int {
	n := 0

	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "- ") {
			n++
		}
	}

	return n
}
