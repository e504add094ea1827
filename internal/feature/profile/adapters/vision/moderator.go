// Package vision screens profile pictures with Cloud Vision SafeSearch.
package vision

import (
	"context"
	"fmt"

	gvision "cloud.google.com/go/vision/v2/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"

	"heartlink/internal/feature/profile/usecase"
)

// SafeSearchModerator rejects images that SafeSearch rates as likely adult, violent or racy.
type SafeSearchModerator struct {
	client *gvision.ImageAnnotatorClient
}

var _ usecase.PictureModerator = (*SafeSearchModerator)(nil)

// NewSafeSearchModerator creates a client using application default credentials.
func NewSafeSearchModerator(ctx context.Context) (*SafeSearchModerator, error) {
	client, err := gvision.NewImageAnnotatorClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create vision client: %w", err)
	}
	return &SafeSearchModerator{client: client}, nil
}

func (m *SafeSearchModerator) Close() error {
	return m.client.Close()
}

// Check returns usecase.ErrPictureRejected for unsafe images.
func (m *SafeSearchModerator) Check(ctx context.Context, data []byte) error {
	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image:    &visionpb.Image{Content: data},
				Features: []*visionpb.Feature{{Type: visionpb.Feature_SAFE_SEARCH_DETECTION}},
			},
		},
	}

	resp, err := m.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		return fmt.Errorf("vision API request failed: %w", err)
	}
	if len(resp.Responses) == 0 {
		return nil
	}
	if e := resp.Responses[0].Error; e != nil {
		return fmt.Errorf("vision API error: %s", e.Message)
	}
	return evaluate(resp.Responses[0].SafeSearchAnnotation)
}

func evaluate(a *visionpb.SafeSearchAnnotation) error {
	if a == nil {
		return nil
	}
	for _, l := range []visionpb.Likelihood{a.Adult, a.Violence, a.Racy} {
		if l >= visionpb.Likelihood_LIKELY {
			return usecase.ErrPictureRejected
		}
	}
	return nil
}
