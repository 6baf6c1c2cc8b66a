package render

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"sync/atomic"

	"github.com/khoahotran/duo-site/internal/domain/media"
)

type AssetState int

const (
	StateUnset AssetState = iota
	StateError
	StateDriveVideoPending
	StateDriveVideoInaccessible
	StatePlaying
)

func (s AssetState) String() string {
	return [...]string{"unset", "error", "drive_video_pending", "drive_video_inaccessible", "playing"}[s]
}

type PlanKind string

const (
	PlanFallback       PlanKind = "fallback"
	PlanErrorFallback  PlanKind = "error_fallback"
	PlanNativeVideo    PlanKind = "native_video"
	PlanDriveIframe    PlanKind = "drive_iframe"
	PlanPlainImage     PlanKind = "plain_image"
	PlanOptimizedImage PlanKind = "optimized_image"
)

// Plan is what one MediaAsset renders in its current state.
type Plan struct {
	Kind     PlanKind
	URL      string
	Alt      string
	SrcSet   string
	ProbeURL string
}

// DriveAccessChecker answers the Drive accessibility question for a file.
type DriveAccessChecker interface {
	CheckAccess(ctx context.Context, fileID string) bool
}

type AssetProps struct {
	URL       string
	MediaType media.Kind
	Alt       string
	// Fallback is shown when there is nothing to render.
	Fallback template.HTML
	// ErrorFallback is shown when the media failed to load or is not reachable.
	ErrorFallback template.HTML
	// Class is added to the rendered element.
	Class string
}

// MediaAsset is one mounted media element. A new instance starts over;
// within one instance no state is ever left once reached, except that a
// pending Drive probe resolves.
type MediaAsset struct {
	props        AssetProps
	isDriveVideo bool
	driveFileID  string
	probe        *EmbedProbe
	loadFailed   atomic.Bool
}

// NewMediaAsset mounts an asset. For a Drive video and a non-nil checker the
// accessibility probe starts immediately and does not block.
func NewMediaAsset(ctx context.Context, props AssetProps, checker DriveAccessChecker) *MediaAsset {
	a := &MediaAsset{props: props}
	if props.MediaType == media.KindVideo && media.IsDriveURL(props.URL) {
		a.isDriveVideo = true
		a.driveFileID, _ = media.DriveFileIDFromURL(props.URL)
	}
	if a.isDriveVideo && checker != nil && a.driveFileID != "" {
		a.probe = NewEmbedProbe()
		fileID := a.driveFileID
		a.probe.Start(ctx, func(ctx context.Context) bool { return checker.CheckAccess(ctx, fileID) })
	}
	return a
}

// MarkLoadError records that the element failed to load. Irreversible.
func (a *MediaAsset) MarkLoadError() {
	a.loadFailed.Store(true)
}

// Probe is nil unless a Drive accessibility check was started.
func (a *MediaAsset) Probe() *EmbedProbe {
	return a.probe
}

func (a *MediaAsset) State() AssetState {
	if strings.TrimSpace(a.props.URL) == "" || (a.props.MediaType != media.KindImage && a.props.MediaType != media.KindVideo) {
		return StateUnset
	}
	if a.loadFailed.Load() {
		return StateError
	}
	if a.isDriveVideo && a.probe != nil {
		switch a.probe.State() {
		case ProbePending:
			return StateDriveVideoPending
		case ProbeInaccessible:
			return StateDriveVideoInaccessible
		}
	}
	return StatePlaying
}

func (a *MediaAsset) Plan() Plan {
	p := Plan{URL: a.props.URL, Alt: a.props.Alt}
	switch a.State() {
	case StateUnset:
		p.Kind = PlanFallback
	case StateError, StateDriveVideoInaccessible:
		p.Kind = PlanErrorFallback
	case StateDriveVideoPending:
		p.Kind = PlanDriveIframe
		p.ProbeURL = ProbeURL(a.driveFileID)
	default:
		switch {
		case a.isDriveVideo:
			p.Kind = PlanDriveIframe
			p.ProbeURL = ProbeURL(a.driveFileID)
		case a.props.MediaType == media.KindVideo:
			p.Kind = PlanNativeVideo
		case media.IsDriveURL(a.props.URL):
			p.Kind = PlanPlainImage
		default:
			p.Kind = PlanOptimizedImage
			p.SrcSet = srcSet(a.props.URL)
		}
	}
	return p
}

// ProbeURL is the public endpoint the browser polls to repeat the Drive check.
func ProbeURL(fileID string) string {
	if fileID == "" {
		return ""
	}
	return "/api/media/drive/" + url.PathEscape(fileID) + "/access"
}

var srcSetWidths = []int{480, 960, 1600}

// srcSet builds responsive variants for Cloudinary delivery URLs. Other hosts
// are served as-is.
func srcSet(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() != "res.cloudinary.com" || !strings.Contains(u.Path, "/upload/") {
		return ""
	}
	parts := make([]string, 0, len(srcSetWidths))
	for _, w := range srcSetWidths {
		variant := *u
		variant.Path = strings.Replace(u.Path, "/upload/", fmt.Sprintf("/upload/w_%d,c_limit,q_auto,f_auto/", w), 1)
		parts = append(parts, fmt.Sprintf("%s %dw", variant.String(), w))
	}
	return strings.Join(parts, ", ")
}

var assetTemplate = template.Must(template.New("asset").Parse(`
{{- define "error" }}<div class="media-error" hidden>{{ .ErrorFallback }}</div>{{ end -}}
{{- with .Plan -}}
{{- if eq .Kind "fallback" }}{{ $.Fallback }}
{{- else if eq .Kind "error_fallback" }}{{ $.ErrorFallback }}
{{- else if eq .Kind "native_video" -}}
<div class="media-asset {{ $.Class }}"><video src="{{ .URL }}" autoplay loop muted playsinline onerror="mediaFailed(this)"></video>{{ template "error" $ }}</div>
{{- else if eq .Kind "drive_iframe" -}}
<div class="media-asset {{ $.Class }}" data-probe-url="{{ .ProbeURL }}"><iframe src="{{ .URL }}" title="{{ .Alt }}" allow="autoplay; fullscreen" allowfullscreen loading="lazy"></iframe>{{ template "error" $ }}</div>
{{- else if eq .Kind "plain_image" -}}
<div class="media-asset {{ $.Class }}"><img src="{{ .URL }}" alt="{{ .Alt }}" referrerpolicy="no-referrer" onerror="mediaFailed(this)">{{ template "error" $ }}</div>
{{- else -}}
<div class="media-asset {{ $.Class }}"><img src="{{ .URL }}" alt="{{ .Alt }}" loading="lazy" decoding="async"{{ if .SrcSet }} srcset="{{ .SrcSet }}" sizes="100vw"{{ end }} onerror="mediaFailed(this)">{{ template "error" $ }}</div>
{{- end -}}
{{- end -}}`))

// HTML renders the current plan.
func (a *MediaAsset) HTML() template.HTML {
	data := struct {
		Plan          Plan
		Fallback      template.HTML
		ErrorFallback template.HTML
		Class         string
	}{a.Plan(), a.props.Fallback, a.props.ErrorFallback, a.props.Class}

	var buf bytes.Buffer
	if err := assetTemplate.Execute(&buf, data); err != nil {
		return a.props.ErrorFallback
	}
	return template.HTML(buf.String())
}
