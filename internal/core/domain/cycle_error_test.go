package domain_test

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"

	"go.trai.ch/memo/internal/core/domain"
)

func frame(desc string, span domain.Span) domain.Frame {
	return domain.Frame{Query: domain.NewInternedString(desc), Span: span}
}

func TestCycleErrorError(t *testing.T) {
	err := &domain.CycleError{
		Cycle: []domain.Frame{frame("type of `Foo`", domain.Span{})},
	}
	assert.Equal(t, "cycle detected when type of `Foo`", err.Error())

	empty := &domain.CycleError{}
	assert.Equal(t, "query cycle detected", empty.Error())
}

func TestCycleErrorReport(t *testing.T) {
	tests := []struct {
		name       string
		err        *domain.CycleError
		goldenName string
	}{
		{
			name: "self cycle",
			err: &domain.CycleError{
				Cycle: []domain.Frame{frame("type of `Foo`", domain.Span{})},
			},
			goldenName: "report_self_cycle",
		},
		{
			name: "two queries with spans and usage",
			err: &domain.CycleError{
				Cycle: []domain.Frame{
					frame("type of `Foo`", domain.Span{File: "lib.rs", Line: 10, Column: 5}),
					frame("layout of `Bar`", domain.Span{File: "lib.rs", Line: 20, Column: 9}),
				},
				Usage: ptr(frame("size of `main`", domain.Span{})),
			},
			goldenName: "report_two_with_usage",
		},
		{
			name: "three queries without spans",
			err: &domain.CycleError{
				Cycle: []domain.Frame{
					frame("type of `A`", domain.Span{}),
					frame("type of `B`", domain.Span{}),
					frame("type of `C`", domain.Span{}),
				},
			},
			goldenName: "report_three_plain",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := goldie.New(t)
			g.Assert(t, tt.goldenName, []byte(tt.err.Report()))
		})
	}
}

func TestSpanString(t *testing.T) {
	assert.Equal(t, "<unknown>", domain.Span{}.String())
	assert.True(t, domain.Span{}.IsZero())

	s := domain.Span{File: "lib.rs", Line: 3, Column: 1}
	assert.Equal(t, "lib.rs:3:1", s.String())
	assert.False(t, s.IsZero())
}

func ptr[T any](v T) *T { return &v }
