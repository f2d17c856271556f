package parameter

import "time"

// Particle limits
const (
	// ParticleMax is the hard cap on live particles
	ParticleMax = 150

	// ParticleInitialPool pre-warms the particle arena
	ParticleInitialPool = 32

	// ParticleSpawnCount is the base count per note event before voice falloff
	ParticleSpawnCount = 12
)

// Particle motion
const (
	ParticleMinSpeed = 40.0  // px/sec
	ParticleMaxSpeed = 160.0 // px/sec
	ParticleGravity  = 30.0  // px/sec², positive is down
	ParticleDrag     = 0.97  // velocity retained per 1/60s

	ParticleMinSize = 2.0
	ParticleMaxSize = 6.0

	ParticleMinLife = 600 * time.Millisecond
	ParticleMaxLife = 1800 * time.Millisecond

	// ParticleMaxSpin is rotation speed range in rad/sec
	ParticleMaxSpin = 3.0
)
