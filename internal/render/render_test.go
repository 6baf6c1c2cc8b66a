package render

import (
	"context"
	"html/template"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/duo-site/internal/domain/media"
)

type gatedChecker struct {
	release chan struct{}
	result  bool
	calls   chan string
}

func newGatedChecker(result bool) *gatedChecker {
	return &gatedChecker{release: make(chan struct{}), result: result, calls: make(chan string, 4)}
}

func (c *gatedChecker) CheckAccess(ctx context.Context, fileID string) bool {
	c.calls <- fileID
	<-c.release
	return c.result
}

func waitProbe(t *testing.T, p *EmbedProbe) {
	t.Helper()
	select {
	case <-p.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("probe did not resolve")
	}
}

func TestEmbedProbe_ResolvesOnce(t *testing.T) {
	p := NewEmbedProbe()
	assert.Equal(t, ProbePending, p.State())

	p.Start(context.Background(), func(context.Context) bool { return true })
	p.Start(context.Background(), func(context.Context) bool { return false })
	waitProbe(t, p)
	assert.Equal(t, ProbeAccessible, p.State())
}

func TestEmbedProbe_PanicIsInaccessible(t *testing.T) {
	p := NewEmbedProbe()
	p.Start(context.Background(), func(context.Context) bool { panic("boom") })
	waitProbe(t, p)
	assert.Equal(t, ProbeInaccessible, p.State())
}

const (
	fallback    = template.HTML(`<div class="placeholder"></div>`)
	errFallback = template.HTML(`<div class="unavailable">Media unavailable</div>`)
)

func props(url string, kind media.Kind) AssetProps {
	return AssetProps{URL: url, MediaType: kind, Alt: "duo on stage", Fallback: fallback, ErrorFallback: errFallback}
}

func TestMediaAsset_Unset(t *testing.T) {
	for _, p := range []AssetProps{props("", media.KindImage), props("https://cdn.example.com/a.jpg", "audio")} {
		a := NewMediaAsset(context.Background(), p, nil)
		assert.Equal(t, StateUnset, a.State())
		assert.Equal(t, PlanFallback, a.Plan().Kind)
		assert.Equal(t, fallback, a.HTML())
	}
}

func TestMediaAsset_LoadErrorIsTerminal(t *testing.T) {
	a := NewMediaAsset(context.Background(), props("https://cdn.example.com/a.jpg", media.KindImage), nil)
	assert.Equal(t, StatePlaying, a.State())

	a.MarkLoadError()
	assert.Equal(t, StateError, a.State())
	assert.Equal(t, errFallback, a.HTML())
	a.MarkLoadError()
	assert.Equal(t, StateError, a.State())
}

func TestMediaAsset_DriveVideoOptimisticThenAccessible(t *testing.T) {
	checker := newGatedChecker(true)
	a := NewMediaAsset(context.Background(), props(media.DriveVideoURL("vid1"), media.KindVideo), checker)

	assert.Equal(t, "vid1", <-checker.calls)
	assert.Equal(t, StateDriveVideoPending, a.State())
	plan := a.Plan()
	assert.Equal(t, PlanDriveIframe, plan.Kind)
	assert.Equal(t, "/api/media/drive/vid1/access", plan.ProbeURL)

	close(checker.release)
	waitProbe(t, a.Probe())
	assert.Equal(t, StatePlaying, a.State())
	assert.Equal(t, PlanDriveIframe, a.Plan().Kind)
	assert.Contains(t, string(a.HTML()), `<iframe src="https://drive.google.com/file/d/vid1/preview"`)
}

func TestMediaAsset_DriveVideoInaccessible(t *testing.T) {
	checker := newGatedChecker(false)
	a := NewMediaAsset(context.Background(), props(media.DriveVideoURL("private"), media.KindVideo), checker)
	close(checker.release)
	waitProbe(t, a.Probe())

	assert.Equal(t, StateDriveVideoInaccessible, a.State())
	assert.Equal(t, PlanErrorFallback, a.Plan().Kind)
	assert.Equal(t, errFallback, a.HTML())
}

func TestMediaAsset_NormalPlaybackPlans(t *testing.T) {
	cases := []struct {
		name string
		url  string
		kind media.Kind
		want PlanKind
	}{
		{name: "native video", url: "https://res.cloudinary.com/duo/video/upload/clip.mp4", kind: media.KindVideo, want: PlanNativeVideo},
		{name: "drive video without checker", url: media.DriveVideoURL("v"), kind: media.KindVideo, want: PlanDriveIframe},
		{name: "drive image", url: media.DriveImageURL("i"), kind: media.KindImage, want: PlanPlainImage},
		{name: "other image", url: "https://ucarecdn.com/abc/", kind: media.KindImage, want: PlanOptimizedImage},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := NewMediaAsset(context.Background(), props(tc.url, tc.kind), nil)
			assert.Equal(t, StatePlaying, a.State())
			assert.Equal(t, tc.want, a.Plan().Kind)
			assert.Nil(t, a.Probe())
		})
	}
}

func TestMediaAsset_UploadedHeroImageRendersExactURL(t *testing.T) {
	url := "https://res.cloudinary.com/duo/image/upload/v1/hero-media/home-1717000000000.jpg"
	a := NewMediaAsset(context.Background(), props(url, media.KindImage), nil)

	plan := a.Plan()
	require.Equal(t, PlanOptimizedImage, plan.Kind)
	assert.Equal(t, url, plan.URL)
	assert.Contains(t, plan.SrcSet, "/upload/w_480,c_limit,q_auto,f_auto/v1/hero-media/home-1717000000000.jpg 480w")

	html := string(a.HTML())
	assert.Contains(t, html, `src="`+url+`"`)
	assert.NotContains(t, html, "iframe")
}

func TestSrcSet_OnlyForCloudinary(t *testing.T) {
	assert.Empty(t, srcSet("https://ucarecdn.com/abc/"))
	assert.Empty(t, srcSet("::not a url"))
}
