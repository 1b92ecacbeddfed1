package git

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDiff = `diff --git a/data/AB/edt.cru b/data/AB/edt.cru
index 3b18e51..a1f2c3d 100644
--- a/data/AB/edt.cru
+++ b/data/AB/edt.cru
@@ -2 +2 @@ +AP03
-1,D1,P=25,H=L 10:00-12:00,F1,S=B103//
+1,D1,P=30,H=L 10:00-12:00,F1,S=B103//
@@ -7,0 +8,2 @@
+2,T1,P=24,H=J 16:00-18:00,F1,S=P202//
+3,T1,P=24,H=J 18:00-20:00,F1,S=P202//
diff --git a/data/CD/edt.cru b/data/CD/edt.cru
deleted file mode 100644
index 3b18e51..0000000
--- a/data/CD/edt.cru
+++ /dev/null
@@ -1,2 +0,0 @@
-+CL02
-1,C1,P=120,H=V 9:00-12:00,F1,S=A101//
diff --git a/README.md b/README.md
@@ -1 +1 @@
-old
+new
`

func TestParseDiff(t *testing.T) {
	changes, err := parseDiff([]byte(sampleDiff))
	require.NoError(t, err)
	require.Len(t, changes, 3)

	assert.Equal(t, "data/AB/edt.cru", changes[0].Path)
	assert.Equal(t, []int{2, 8, 9}, changes[0].ChangedLines)
	assert.False(t, changes[0].Deleted)

	assert.Equal(t, "data/CD/edt.cru", changes[1].Path)
	assert.True(t, changes[1].Deleted)
	assert.Empty(t, changes[1].ChangedLines)

	cru := FilterFiles(changes, func(p string) bool { return strings.HasSuffix(p, ".cru") })
	assert.Len(t, cru, 2)
}

func TestParseDiff_Empty(t *testing.T) {
	changes, err := parseDiff(nil)
	require.NoError(t, err)
	assert.Empty(t, changes)
}
