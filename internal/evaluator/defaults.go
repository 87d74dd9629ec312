package evaluator

// RegisterAWS binds every cloud provider check family to clients.
func RegisterAWS(reg *Registry, clients Clients) {
	reg.Register(Key{ServiceEC2, TypeInstanceRunning}, ec2Handler{clients: clients, typ: TypeInstanceRunning})
	reg.Register(Key{ServiceEC2, TypeInstanceHasPublicIP}, ec2Handler{clients: clients, typ: TypeInstanceHasPublicIP})

	reg.Register(Key{ServiceALB, TypeTargetGroupHealthy}, elbHandler{clients: clients})

	reg.Register(Key{ServiceRoute53, TypeDNSPointsTo}, route53Handler{clients: clients})

	iamH := iamHandler{clients: clients}
	reg.RegisterFunc(Key{ServiceIAM, TypeRoleExists}, iamH.roleExists)
	reg.RegisterFunc(Key{ServiceIAM, TypeRoleHasPolicy}, iamH.roleHasPolicy)

	reg.Register(Key{ServiceS3, TypeS3LifecycleConfigured}, s3Handler{clients: clients})

	for _, t := range []string{TypeRDSInstanceAvailable, TypeRDSPublicAccessDisabled, TypeRDSEncryptionEnabled} {
		reg.Register(Key{ServiceRDS, t}, rdsHandler{clients: clients, typ: t})
	}

	ecsH := ecsHandler{clients: clients}
	reg.RegisterFunc(Key{ServiceECS, TypeECSClusterActive}, ecsH.clusterActive)
	reg.RegisterFunc(Key{ServiceECS, TypeECSServiceRunning}, ecsH.serviceRunning)
}

// RegisterNetwork binds the credential-free probes.
func RegisterNetwork(reg *Registry, icmp ICMPProber, http HTTPProber) {
	h := networkHandler{icmp: icmp, http: http}
	reg.RegisterFunc(Key{ServiceNetwork, TypePing}, h.ping)
	reg.RegisterFunc(Key{ServiceNetwork, TypeHTTP200}, h.http200)
}

func NewDefaultRegistry(clients Clients, icmp ICMPProber, http HTTPProber) *Registry {
	reg := NewRegistry()
	RegisterAWS(reg, clients)
	RegisterNetwork(reg, icmp, http)
	return reg
}
