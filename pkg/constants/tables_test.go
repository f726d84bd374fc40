package constants

import (
	"testing"
)

func TestForumTables_DependentsFirst(t *testing.T) {
	order := map[string]int{}
	for i, name := range ForumTables() {
		order[name] = i
	}

	// child table must be dropped before the table it references
	edges := [][2]string{
		{TableSession, TableUser},
		{TableReaction, TablePost},
		{TableReaction, TableComment},
		{TableComment, TablePost},
		{TableSavedPost, TablePost},
		{TablePost, TableSubthread},
		{TableModerator, TableSubthread},
		{TableSubscription, TableSubthread},
		{TableSubthread, TableUser},
		{TableMessage, TableUser},
	}

	for _, e := range edges {
		t.Run(e[0]+"->"+e[1], func(t *testing.T) {
			if order[e[0]] >= order[e[1]] {
				t.Errorf("%s must come before %s", e[0], e[1])
			}
		})
	}
}
