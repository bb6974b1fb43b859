package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/onsi/gomega"

	"github.com/bpsolver/bpsolver/pkg/api"
	"github.com/bpsolver/bpsolver/pkg/api/bpsolver"
)

func TestConfigInit(t *testing.T) {
	g := NewGomegaWithT(t)
	file := filepath.Join(t.TempDir(), "bpsolver.yaml")

	g.Expect((&ConfigInit{ConfigFile: file}).Init()).To(Succeed())
	g.Expect((&ConfigInit{ConfigFile: file}).Init()).To(MatchError(ContainSubstring("already exists")))
	g.Expect((&ConfigInit{ConfigFile: file, Force: true}).Init()).To(Succeed())

	cfg, err := LoadConfigFile(file)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(cfg).To(Equal(bpsolver.DefaultConfig()))
}

func TestLoadConfigFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    func(cfg *bpsolver.Config)
		wantErr []string
	}{
		{
			name:    "should keep defaults for missing fields",
			content: "backend: sat\nnodeLimit: 1000\n",
			want: func(cfg *bpsolver.Config) {
				cfg.Backend = "sat"
				cfg.NodeLimit = 1000
			},
		},
		{
			name:    "should read nested cache settings",
			content: "preflight: false\ncache:\n  enabled: true\n  path: /tmp/verdicts.cbor\nlogLevel: debug\n",
			want: func(cfg *bpsolver.Config) {
				cfg.Preflight = false
				cfg.Cache.Enabled = true
				cfg.Cache.Path = "/tmp/verdicts.cbor"
				cfg.LogLevel = "debug"
			},
		},
		{
			name:    "should report every invalid setting",
			content: "backend: mip\ntimeout: soon\nparallelism: -1\nlogLevel: loud\n",
			wantErr: []string{"unknown backend", "invalid timeout", "parallelism", "loud"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGomegaWithT(t)
			file := filepath.Join(t.TempDir(), "bpsolver.yaml")
			g.Expect(os.WriteFile(file, []byte(tt.content), 0600)).To(Succeed())

			cfg, err := LoadConfigFile(file)
			if len(tt.wantErr) > 0 {
				g.Expect(err).To(HaveOccurred())
				for _, msg := range tt.wantErr {
					g.Expect(err.Error()).To(ContainSubstring(msg))
				}
				return
			}
			g.Expect(err).ToNot(HaveOccurred())
			want := bpsolver.DefaultConfig()
			tt.want(want)
			g.Expect(cfg).To(Equal(want))
		})
	}
}

func TestTimeout(t *testing.T) {
	g := NewGomegaWithT(t)
	d, err := Timeout(&bpsolver.Config{Timeout: "1m30s"})
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(d).To(Equal(90 * time.Second))

	d, err = Timeout(&bpsolver.Config{})
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(d).To(BeZero())

	_, err = Timeout(&bpsolver.Config{Timeout: "-1s"})
	g.Expect(err).To(HaveOccurred())
}

func TestInstanceFile(t *testing.T) {
	g := NewGomegaWithT(t)
	file := filepath.Join(t.TempDir(), "instance.yaml")
	inst := &api.Instance{Name: "halves", Items: []int{4, 4, 4, 4}, Bins: 2, Capacity: 8}
	g.Expect(WriteInstanceFile(file, inst)).To(Succeed())

	data, err := os.ReadFile(file)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(string(data)).To(Equal("bins: 2\ncapacity: 8\nitems:\n- 4\n- 4\n- 4\n- 4\nname: halves\n"))

	loaded, err := LoadInstanceFile(file)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(loaded).To(Equal(inst))

	_, err = LoadInstanceFile(filepath.Join(t.TempDir(), "missing.yaml"))
	g.Expect(err).To(HaveOccurred())
}
