package testimonial

import (
	"github.com/jhoicas/testimonios-api/internal/application/dto"
	"github.com/jhoicas/testimonios-api/internal/domain/entity"
	"github.com/jhoicas/testimonios-api/internal/domain/repository"
)

// toTestimonialResponse mapea la entidad. full expone la api_key y el email anónimo (admin y editores de la org).
func toTestimonialResponse(t *entity.Testimonial, full bool) *dto.TestimonialResponse {
	if t == nil {
		return nil
	}
	files := t.Files
	if files == nil {
		files = []string{}
	}
	resp := &dto.TestimonialResponse{
		ID:             t.ID,
		OrganizationID: t.OrganizationID,
		CategoryID:     t.CategoryID,
		AuthorID:       t.AuthorID,
		AnonymousName:  t.AnonymousName,
		Comment:        t.Comment,
		Link:           t.Link,
		Files:          append([]string{}, files...),
		Rating:         t.Rating.StringFixed(1),
		State:          string(t.State),
		StateName:      t.State.Name(),
		Feedback:       t.Feedback,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
	if full {
		resp.AccessKey = t.AccessKey
		resp.AnonymousEmail = t.AnonymousEmail
	}
	return resp
}

func toTestimonialList(list []*entity.Testimonial, full bool, f repository.TestimonialFilter) *dto.TestimonialListResponse {
	items := make([]dto.TestimonialResponse, 0, len(list))
	for _, t := range list {
		items = append(items, *toTestimonialResponse(t, full))
	}
	return &dto.TestimonialListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: f.Limit, Offset: f.Offset},
	}
}

func toStatsResponse(s repository.OrganizationStats) dto.OrganizationStatsResponse {
	return dto.OrganizationStatsResponse{
		OrganizationID:   s.OrganizationID,
		OrganizationName: s.OrganizationName,
		Total:            s.Total,
		Approved:         s.Approved,
		Pending:          s.Pending,
		Rejected:         s.Rejected,
		Published:        s.Published,
		Hidden:           s.Hidden,
		AverageRating:    s.AverageRating.StringFixed(1),
	}
}
