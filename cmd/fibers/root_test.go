package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	srvErrors "github.com/era-engine/fibers/pkg/errors"
)

var _ = Describe("fibers command", func() {
	var out *bytes.Buffer

	execute := func(args ...string) error {
		cmd := newRootCommand()
		cmd.SetOut(out)
		cmd.SetErr(out)
		base := []string{"--log-level", "error", "--num-threads", "1", "--fiber-pool-size", "8", "--work-units", "10"}
		cmd.SetArgs(append(args, base...))
		return cmd.ExecuteContext(context.Background())
	}

	BeforeEach(func() {
		out = &bytes.Buffer{}
	})

	Context("run", func() {
		// Given small workload flags
		// When the run command executes
		// Then a completed report is printed for every repetition
		It("should print a report per run", func() {
			err := execute("run", "--frames", "2", "--substeps", "3", "--repeat", "2")

			Expect(err).NotTo(HaveOccurred())
			Expect(out.String()).To(ContainSubstring("run 1"))
			Expect(out.String()).To(ContainSubstring("run 2"))
			Expect(out.String()).To(ContainSubstring("2/2"))
			Expect(out.String()).To(ContainSubstring("completed"))
		})

		It("should reject an invalid scheduler configuration", func() {
			err := execute("run", "--frames", "1", "--queue-capacity", "0")
			Expect(srvErrors.IsConfigurationError(err)).To(BeTrue())
		})

		It("should read unset flags from the configuration file", func() {
			path := filepath.Join(GinkgoT().TempDir(), "fibers.yaml")
			Expect(os.WriteFile(path, []byte("frames: 3\nsubsteps: 1\n"), 0o600)).To(Succeed())

			err := execute("run", "--config", path)

			Expect(err).NotTo(HaveOccurred())
			Expect(out.String()).To(ContainSubstring("3/3"))
		})

		It("should prefer command line flags over the configuration file", func() {
			path := filepath.Join(GinkgoT().TempDir(), "fibers.yaml")
			Expect(os.WriteFile(path, []byte("frames: 3\n"), 0o600)).To(Succeed())

			err := execute("run", "--config", path, "--frames", "1")

			Expect(err).NotTo(HaveOccurred())
			Expect(out.String()).To(ContainSubstring("1/1"))
		})

		It("should read flags from FIBERS_ environment variables", func() {
			Expect(os.Setenv("FIBERS_FRAMES", "4")).To(Succeed())
			DeferCleanup(os.Unsetenv, "FIBERS_FRAMES")

			err := execute("run", "--substeps", "1")

			Expect(err).NotTo(HaveOccurred())
			Expect(out.String()).To(ContainSubstring("4/4"))
		})

		It("should fail on an unreadable configuration file", func() {
			err := execute("run", "--config", filepath.Join(GinkgoT().TempDir(), "missing.yaml"))
			Expect(err).To(HaveOccurred())
		})
	})

	Context("logging", func() {
		It("should reject an unknown log level", func() {
			_, err := newLogger("console", "loud")
			Expect(err).To(HaveOccurred())
		})

		It("should build a json logger", func() {
			logger, err := newLogger("json", "info")
			Expect(err).NotTo(HaveOccurred())
			Expect(logger).NotTo(BeNil())
		})
	})
})
