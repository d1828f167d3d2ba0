package config_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/evochora/evochora/config"
)

var _ = Describe("Parse", func() {
	It("accepts a well-formed config", func() {
		yaml := `
worldShape: [10, 10]
toroidal: [true, true]
seed: 42
energyStrategies:
  - class: solar
    params:
      p: 0.1
      amount: 5
      radius: 1
initialOrganisms:
  - programId: demo
    position: [0, 0]
    initialEnergy: 100
`
		cfg, err := config.Parse([]byte(yaml))
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.WorldShape).To(Equal([]int{10, 10}))
		Expect(cfg.EnergyStrategies).To(HaveLen(1))
		Expect(cfg.InitialOrganisms[0].ProgramID).To(Equal("demo"))
	})

	It("rejects an unknown energy strategy class", func() {
		yaml := `
worldShape: [10, 10]
energyStrategies:
  - class: volcano
`
		_, err := config.Parse([]byte(yaml))
		Expect(err).To(HaveOccurred())
		var cfgErr *config.ConfigError
		Expect(err).To(BeAssignableToTypeOf(cfgErr))
	})

	It("rejects a toroidal list whose length disagrees with worldShape", func() {
		yaml := `
worldShape: [10, 10, 10]
toroidal: [true, false]
`
		_, err := config.Parse([]byte(yaml))
		Expect(err).To(HaveOccurred())
	})

	It("rejects an initial organism whose position dimensionality disagrees with worldShape", func() {
		yaml := `
worldShape: [10, 10]
initialOrganisms:
  - programId: demo
    position: [0, 0, 0]
    initialEnergy: 10
`
		_, err := config.Parse([]byte(yaml))
		Expect(err).To(HaveOccurred())
	})

	It("rejects an empty worldShape", func() {
		_, err := config.Parse([]byte(`worldShape: []`))
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("ToroidalFlags", func() {
	It("defaults to fully toroidal when the config omits it", func() {
		cfg, err := config.Parse([]byte(`worldShape: [4, 4]`))
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.ToroidalFlags()).To(Equal([]bool{true, true}))
	})
})
