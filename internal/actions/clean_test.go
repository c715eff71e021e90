package actions_test

import (
	"errors"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/opsforge/ecr-janitor/internal/actions"
	"github.com/opsforge/ecr-janitor/internal/actions/mocks"
	"github.com/opsforge/ecr-janitor/pkg/retention"
	"github.com/opsforge/ecr-janitor/pkg/session"
	"github.com/opsforge/ecr-janitor/pkg/types"
)

var errRegistryDown = errors.New("registry down")

var _ = ginkgo.Describe("the clean action", func() {
	var (
		now       time.Time
		policy    retention.Policy
		registry  *mocks.MockRegistry
		publisher *mocks.MockPublisher
		params    actions.CleanParams
	)

	newSession := func(ignore retention.IgnoreSet, dryRun bool) *session.Session {
		return session.NewAt(now, policy, ignore, dryRun)
	}

	pushedDaysAgo := func(days int) time.Time {
		return now.Add(-time.Duration(days) * 24 * time.Hour)
	}

	ginkgo.BeforeEach(func() {
		now = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
		policy = retention.Policy{
			StableWindow:   14 * 24 * time.Hour,
			UnstableWindow: 24 * time.Hour,
		}
		registry = &mocks.MockRegistry{
			Repos:  []types.Repository{{RegistryID: "123456789012", Name: "pytorch/base"}},
			Images: map[string][]types.Image{},
		}
		publisher = &mocks.MockPublisher{}
		params = actions.CleanParams{Prefix: "pytorch", Label: "pytorch"}
	})

	ginkgo.When("a stable tag is past its window", func() {
		ginkgo.It("deletes it without reporting it", func() {
			registry.Images["pytorch/base"] = []types.Image{
				{Digest: "sha256:aa", Tags: []string{"42"}, PushedAt: pushedDaysAgo(20)},
			}

			summary, err := actions.Clean(registry, publisher, newSession(nil, false), params)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(registry.DeletedDigests()).To(gomega.ConsistOf("sha256:aa"))
			gomega.Expect(summary.Deleted).To(gomega.Equal(1))
			gomega.Expect(publisher.Calls).To(gomega.HaveLen(1))
			gomega.Expect(publisher.Calls[0].Rows).To(gomega.BeEmpty())
		})
	})

	ginkgo.When("a stable tag is within its window", func() {
		ginkgo.It("keeps it and reports it with the stable window", func() {
			registry.Images["pytorch/base"] = []types.Image{
				{Digest: "sha256:aa", Tags: []string{"a-b-c-d-e"}, PushedAt: pushedDaysAgo(2)},
			}

			summary, err := actions.Clean(registry, publisher, newSession(nil, false), params)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(registry.DeleteCalls).To(gomega.BeEmpty())
			gomega.Expect(summary.Kept).To(gomega.Equal(1))

			rows := publisher.Calls[0].Rows
			gomega.Expect(rows).To(gomega.HaveLen(1))
			gomega.Expect(rows[0].Tag).To(gomega.Equal("a-b-c-d-e"))
			gomega.Expect(rows[0].Window).To(gomega.Equal(policy.StableWindow))
			gomega.Expect(rows[0].Ignored).To(gomega.BeFalse())
		})
	})

	ginkgo.When("an unstable tag is within its window", func() {
		ginkgo.It("keeps it without reporting it", func() {
			registry.Images["pytorch/base"] = []types.Image{
				{Digest: "sha256:aa", Tags: []string{"feature-x"}, PushedAt: now.Add(-2 * time.Hour)},
			}

			summary, err := actions.Clean(registry, publisher, newSession(nil, false), params)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(registry.DeleteCalls).To(gomega.BeEmpty())
			gomega.Expect(summary.Kept).To(gomega.Equal(1))
			gomega.Expect(publisher.Calls[0].Rows).To(gomega.BeEmpty())
		})
	})

	ginkgo.When("an unstable tag is past its window", func() {
		ginkgo.It("deletes it without reporting it", func() {
			registry.Images["pytorch/base"] = []types.Image{
				{Digest: "sha256:aa", Tags: []string{"feature-x"}, PushedAt: pushedDaysAgo(2)},
			}

			_, err := actions.Clean(registry, publisher, newSession(nil, false), params)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(registry.DeletedDigests()).To(gomega.ConsistOf("sha256:aa"))
			gomega.Expect(publisher.Calls[0].Rows).To(gomega.BeEmpty())
		})
	})

	ginkgo.When("a tag is in the ignore set", func() {
		ginkgo.It("keeps it regardless of age and reports it with an empty window", func() {
			registry.Images["pytorch/base"] = []types.Image{
				{Digest: "sha256:aa", Tags: []string{"latest"}, PushedAt: pushedDaysAgo(10 * 365)},
			}

			summary, err := actions.Clean(registry, publisher, newSession(retention.NewIgnoreSet("latest"), false), params)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(registry.DeleteCalls).To(gomega.BeEmpty())
			gomega.Expect(summary.Ignored).To(gomega.Equal(1))

			rows := publisher.Calls[0].Rows
			gomega.Expect(rows).To(gomega.HaveLen(1))
			gomega.Expect(rows[0].Ignored).To(gomega.BeTrue())
			gomega.Expect(rows[0].Window).To(gomega.BeZero())
		})
	})

	ginkgo.When("an image carries no tags", func() {
		ginkgo.It("skips it entirely", func() {
			registry.Images["pytorch/base"] = []types.Image{
				{Digest: "sha256:aa", PushedAt: pushedDaysAgo(100)},
			}

			summary, err := actions.Clean(registry, publisher, newSession(nil, false), params)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(registry.DeleteCalls).To(gomega.BeEmpty())
			gomega.Expect(summary.Untagged).To(gomega.Equal(1))
			gomega.Expect(summary.Scanned).To(gomega.BeZero())
		})
	})

	ginkgo.When("only the first tag of a multi-tagged image matters", func() {
		ginkgo.It("classifies by the first tag alone", func() {
			// First tag is unstable and stale; the second would be stable.
			registry.Images["pytorch/base"] = []types.Image{
				{Digest: "sha256:aa", Tags: []string{"feature-x", "42"}, PushedAt: pushedDaysAgo(2)},
			}

			_, err := actions.Clean(registry, publisher, newSession(nil, false), params)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(registry.DeletedDigests()).To(gomega.ConsistOf("sha256:aa"))
		})
	})

	ginkgo.When("dry-run is enabled", func() {
		ginkgo.It("logs delete decisions without issuing delete calls", func() {
			registry.Images["pytorch/base"] = []types.Image{
				{Digest: "sha256:aa", Tags: []string{"42"}, PushedAt: pushedDaysAgo(20)},
			}

			summary, err := actions.Clean(registry, publisher, newSession(nil, true), params)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(registry.DeleteCalls).To(gomega.BeEmpty())
			gomega.Expect(summary.Deleted).To(gomega.Equal(1))
			gomega.Expect(summary.DryRun).To(gomega.BeTrue())
		})
	})

	ginkgo.When("multiple repositories match the prefix", func() {
		ginkgo.BeforeEach(func() {
			registry.Repos = []types.Repository{
				{RegistryID: "123456789012", Name: "pytorch/base"},
				{RegistryID: "123456789012", Name: "pytorch/builder"},
				{RegistryID: "123456789012", Name: "caffe2/base"},
			}
			registry.Images["pytorch/base"] = []types.Image{
				{Digest: "sha256:aa", Tags: []string{"42"}, PushedAt: pushedDaysAgo(20)},
				{Digest: "sha256:bb", Tags: []string{"43"}, PushedAt: pushedDaysAgo(2)},
			}
			registry.Images["pytorch/builder"] = []types.Image{
				{Digest: "sha256:cc", Tags: []string{"44"}, PushedAt: pushedDaysAgo(20)},
			}
			registry.Images["caffe2/base"] = []types.Image{
				{Digest: "sha256:dd", Tags: []string{"45"}, PushedAt: pushedDaysAgo(20)},
			}
		})

		ginkgo.It("never mixes digests across repositories", func() {
			_, err := actions.Clean(registry, publisher, newSession(nil, false), params)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(registry.DeleteCalls).To(gomega.HaveLen(2))
			gomega.Expect(registry.DeleteCalls[0].Repo.Name).To(gomega.Equal("pytorch/base"))
			gomega.Expect(registry.DeleteCalls[0].Digests).To(gomega.ConsistOf("sha256:aa"))
			gomega.Expect(registry.DeleteCalls[1].Repo.Name).To(gomega.Equal("pytorch/builder"))
			gomega.Expect(registry.DeleteCalls[1].Digests).To(gomega.ConsistOf("sha256:cc"))
		})

		ginkgo.It("leaves repositories outside the prefix untouched", func() {
			summary, err := actions.Clean(registry, publisher, newSession(nil, false), params)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(summary.Repositories).To(gomega.Equal(2))
			gomega.Expect(registry.Images["caffe2/base"]).To(gomega.HaveLen(1))
		})

		ginkgo.It("publishes one consolidated report covering every repository", func() {
			_, err := actions.Clean(registry, publisher, newSession(nil, false), params)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(publisher.Calls).To(gomega.HaveLen(1))
			gomega.Expect(publisher.Calls[0].Label).To(gomega.Equal("pytorch"))

			rows := publisher.Calls[0].Rows
			gomega.Expect(rows).To(gomega.HaveLen(1))
			gomega.Expect(rows[0].Repository).To(gomega.Equal("pytorch/base"))
			gomega.Expect(rows[0].Tag).To(gomega.Equal("43"))
		})

		ginkgo.It("is idempotent: a second run finds nothing left to delete", func() {
			_, err := actions.Clean(registry, publisher, newSession(nil, false), params)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			firstRunCalls := len(registry.DeleteCalls)

			_, err = actions.Clean(registry, publisher, newSession(nil, false), params)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(registry.DeleteCalls).To(gomega.HaveLen(firstRunCalls))
		})
	})

	ginkgo.When("the image walk fails", func() {
		ginkgo.It("aborts the run and leaves the report unpublished", func() {
			registry.WalkImagesErr = errRegistryDown

			_, err := actions.Clean(registry, publisher, newSession(nil, false), params)

			gomega.Expect(err).To(gomega.MatchError(errRegistryDown))
			gomega.Expect(publisher.Calls).To(gomega.BeEmpty())
		})
	})

	ginkgo.When("publishing fails", func() {
		ginkgo.It("propagates the upload error", func() {
			publisher.PublishErr = errRegistryDown

			_, err := actions.Clean(registry, publisher, newSession(nil, false), params)

			gomega.Expect(err).To(gomega.MatchError(errRegistryDown))
		})
	})

	ginkgo.When("no publisher is configured", func() {
		ginkgo.It("completes the run without publishing", func() {
			registry.Images["pytorch/base"] = []types.Image{
				{Digest: "sha256:aa", Tags: []string{"42"}, PushedAt: pushedDaysAgo(20)},
			}

			summary, err := actions.Clean(registry, nil, newSession(nil, false), params)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(summary.Deleted).To(gomega.Equal(1))
		})
	})
})
