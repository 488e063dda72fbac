package remoteaccess_test

import (
	"testing"

	"github.com/axdroid/go-axdroid/adb/remoteaccess"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedPackages(t *testing.T) {
	seeds := remoteaccess.SeedPackages()
	require.NotEmpty(t, seeds)
	assert.Contains(t, seeds, "com.teamviewer.quicksupport.market")
	assert.Contains(t, seeds, "com.anydesk.anydeskandroid")
	assert.Contains(t, seeds, "com.carriez.flutter_hbb")

	unique := map[string]bool{}
	for _, name := range seeds {
		assert.False(t, unique[name], "duplicate seed package %s", name)
		unique[name] = true
	}
}

func TestCandidatesWithoutCustoms(t *testing.T) {
	candidates := remoteaccess.Candidates(nil)
	assert.Equal(t, len(remoteaccess.SeedPackages()), len(candidates))
	// curated names stay intact
	assert.Equal(t, "TeamViewer", candidates[0].AppName)
}

func TestCandidatesMergesCustoms(t *testing.T) {
	candidates := remoteaccess.Candidates([]string{
		"com.example.rat",
		" com.anydesk.anydeskandroid ", // already seeded, dropped
		"",
		"com.example.rat", // duplicate custom, dropped
		"org.other.remote",
	})

	seedCount := len(remoteaccess.SeedPackages())
	require.Len(t, candidates, seedCount+2)

	first := candidates[seedCount]
	assert.Equal(t, "com.example.rat", first.PackageName)
	// custom packages have no curated display name
	assert.Equal(t, "com.example.rat", first.AppName)
	assert.Equal(t, "org.other.remote", candidates[seedCount+1].PackageName)
}
